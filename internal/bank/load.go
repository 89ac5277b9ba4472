package bank

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

//go:embed data/*.json
var dataFS embed.FS

// ValidationError reports a bank file that does not satisfy the bank format.
type ValidationError struct {
	BankID string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bank %q: %v", e.BankID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Parse validates and decodes one bank file. Question ids must be unique
// within the file.
func Parse(bankID string, raw []byte) ([]Question, error) {
	if err := validate(raw); err != nil {
		return nil, &ValidationError{BankID: bankID, Err: err}
	}

	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, &ValidationError{BankID: bankID, Err: fmt.Errorf("decode: %w", err)}
	}

	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			return nil, &ValidationError{BankID: bankID, Err: fmt.Errorf("question %d: empty id", i)}
		}
		if seen[q.ID] {
			return nil, &ValidationError{BankID: bankID, Err: fmt.Errorf("duplicate question id %q", q.ID)}
		}
		seen[q.ID] = true
	}
	if qs == nil {
		qs = []Question{}
	}
	return qs, nil
}

var (
	embeddedOnce  sync.Once
	embeddedTable Table
	embeddedErr   error
)

// Embedded returns the banks compiled into the binary.
func Embedded() (Table, error) {
	embeddedOnce.Do(func() {
		embeddedTable, embeddedErr = loadFS(dataFS, "data")
	})
	return embeddedTable, embeddedErr
}

// LoadDir builds a table from every *.json file in dir. The bank id is the
// file name, e.g. "grade_3_bank.json".
func LoadDir(dir string) (Table, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat bank dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("bank dir %s is not a directory", dir)
	}
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) (Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read bank dir: %w", err)
	}

	t := make(Table)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		qs, err := Parse(e.Name(), raw)
		if err != nil {
			return nil, err
		}
		t[e.Name()] = qs
	}
	return t, nil
}
