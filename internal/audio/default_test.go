package audio

import (
	"path"
	"testing"
)

func TestSFXNamesResolveToFiles(t *testing.T) {
	// The engine requests effects by name, never by path.
	for _, name := range []string{"boom"} {
		p, ok := sfxPath(name)
		if !ok {
			t.Log("no file mapped for", name)
			t.Fail()
			continue
		}
		if ext := path.Ext(p); ext != ".ogg" && ext != ".mp3" {
			t.Log("undecodable sfx format for", name, ":", p)
			t.Fail()
		}
	}

	if _, ok := sfxPath("missing"); ok {
		t.Log("unknown names must not resolve")
		t.Fail()
	}
}
