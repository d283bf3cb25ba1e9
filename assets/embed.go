// Package assets embeds the default word lists and SQL migrations.
package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed start.txt lexicon.txt
var FS embed.FS

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the SQL migration files, rooted at the migrations directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err) // the directory is embedded above
	}
	return sub
}

// ReadLines returns the non-blank, non-comment lines of r, trimmed. Case is
// left to the caller.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// StartWords returns the embedded root word list.
func StartWords() ([]string, error) {
	return readLines("start.txt")
}

// LexiconWords returns the embedded dictionary word list.
func LexiconWords() ([]string, error) {
	return readLines("lexicon.txt")
}
