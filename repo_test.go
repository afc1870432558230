package modelscat

import (
	"path/filepath"
	"testing"
)

func TestRepoFolderName(t *testing.T) {
	cases := []struct {
		repo Repo
		want string
	}{
		{NewModelRepo("acme/widget"), "models--acme--widget"},
		{NewDatasetRepo("acme/corpus"), "datasets--acme--corpus"},
		{NewModelRepo("BAAI/bge-small-zh-v1.5"), "models--BAAI--bge-small-zh-v1.5"},
	}
	for _, c := range cases {
		if got := c.repo.FolderName(); got != c.want {
			t.Fatalf("FolderName(%s) = %s，期望 %s", c.repo.ID(), got, c.want)
		}
	}
}

func TestRepoWithRevisionValueSemantics(t *testing.T) {
	base := NewModelRepo("acme/widget")
	derived := base.WithRevision("v1.0")

	if base.Revision() != DefaultRevision {
		t.Fatalf("WithRevision 不应修改原值，得到 %s", base.Revision())
	}
	if derived.Revision() != "v1.0" {
		t.Fatalf("派生版本应为 v1.0，得到 %s", derived.Revision())
	}
}

func TestRepoTypeString(t *testing.T) {
	if RepoTypeModel.String() != "models" || RepoTypeDataset.String() != "datasets" {
		t.Fatalf("类型前缀不符: %s / %s", RepoTypeModel, RepoTypeDataset)
	}
}

func TestDefaultCacheDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(CacheDirEnv, dir)

	got, err := DefaultCacheDir()
	if err != nil {
		t.Fatalf("解析缓存目录失败: %v", err)
	}
	if got != dir {
		t.Fatalf("应使用环境变量覆盖，得到 %s", got)
	}
}

func TestDefaultCacheDirFallsBackToHome(t *testing.T) {
	t.Setenv(CacheDirEnv, "")

	got, err := DefaultCacheDir()
	if err != nil {
		t.Fatalf("解析缓存目录失败: %v", err)
	}
	want := filepath.Join("modelscope", "hub")
	if len(got) == 0 || !filepath.IsAbs(got) {
		t.Fatalf("默认缓存目录应为绝对路径，得到 %s", got)
	}
	if filepath.Base(filepath.Dir(got))+string(filepath.Separator)+filepath.Base(got) != want {
		t.Fatalf("默认缓存目录应以 %s 结尾，得到 %s", want, got)
	}
}
