package calendar

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/mawsim/internal/domain/types"
)

//go:embed default.yaml
var defaultTable []byte

type periodDoc struct {
	Label  string `koanf:"label"`
	Family string `koanf:"family"`
	Start  string `koanf:"start"`
	End    string `koanf:"end"`
}

// bytesProvider feeds an in-memory document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, errors.New("bytes provider does not support Read")
}

// Load reads a YAML period table from path.
func Load(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parse(file.Provider(path))
}

// Default returns the table shipped with the binary.
func Default() (*Table, error) {
	return parse(bytesProvider(defaultTable))
}

// MustDefault is Default for tests and tools; it panics on a broken table.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

func parse(p koanf.Provider) (*Table, error) {
	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("read table: %v", err)}
	}
	var docs []periodDoc
	if err := k.UnmarshalWithConf("periods", &docs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("decode periods: %v", err)}
	}
	periods := make([]Period, 0, len(docs))
	for i, d := range docs {
		p := Period{Label: Label(d.Label), Family: Family(d.Family)}
		var err error
		if p.Start, err = types.ParseDate(d.Start); err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("period %d start: %v", i, err), Period: p}
		}
		if p.End, err = types.ParseDate(d.End); err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("period %d end: %v", i, err), Period: p}
		}
		periods = append(periods, p)
	}
	if len(periods) == 0 {
		return nil, &ConfigurationError{Reason: "no periods configured"}
	}
	return NewTable(k.String("version"), periods)
}
