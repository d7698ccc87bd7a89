package vars

import (
	"strings"
	"testing"
)

func TestCommitShort(t *testing.T) {
	orig := Commit
	t.Cleanup(func() { Commit = orig })

	Commit = "da15c174cd2ada1ad247906536c101e8f6799def"
	if got := CommitShort(); got != "da15c17" {
		t.Fatalf("CommitShort = %q", got)
	}

	Commit = "abc"
	if got := CommitShort(); got != "abc" {
		t.Fatalf("CommitShort = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, Name+"/"+Version) || !strings.Contains(ua, URL) {
		t.Fatalf("UserAgent = %q", ua)
	}
}

func TestInfo(t *testing.T) {
	info := Info()
	if info.Name != Name || info.GoVersion == "" || info.License != License {
		t.Fatalf("unexpected info %+v", info)
	}
}
