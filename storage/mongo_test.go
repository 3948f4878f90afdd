package storage

import "testing"

func TestDatabaseName(t *testing.T) {
	tests := map[string]string{
		"mongodb://localhost:27017":                    defaultDatabase,
		"mongodb://localhost:27017/":                   defaultDatabase,
		"mongodb://user:secret@db:27017/registrar":     "registrar",
		"mongodb+srv://cluster.example.net/grades?w=1": "grades",
		"://bad":                                       defaultDatabase,
	}

	for uri, want := range tests {
		if got := DatabaseName(uri); got != want {
			t.Errorf("DatabaseName(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestRedactURI(t *testing.T) {
	got := redactURI("mongodb://admin:secret@db:27017/eclass")
	if got != "mongodb://admin:xxxxx@db:27017/eclass" {
		t.Errorf("redactURI got %q", got)
	}
	if got := redactURI("mongodb://db:27017"); got != "mongodb://db:27017" {
		t.Errorf("redactURI without credentials got %q", got)
	}
}
