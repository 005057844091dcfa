package kms

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver expands `include "path"` directives found in a token stream,
// recursively lexing each included file and splicing its tokens in place —
// the "lexer recurses lexically" behavior. Load is injectable so tests can
// resolve includes against an in-memory filesystem.
type Resolver struct {
	Load func(path string) ([]byte, error)
}

// NewResolver returns a Resolver backed by the real filesystem.
func NewResolver() *Resolver {
	return &Resolver{Load: os.ReadFile}
}

// Resolve walks tokens (as produced by Lex for the file at baseDir/<name>)
// and returns a flat token stream with every include spliced in.
func (r *Resolver) Resolve(tokens []Token, baseDir string) ([]Token, error) {
	return r.resolve(tokens, baseDir, map[string]bool{})
}

func (r *Resolver) resolve(tokens []Token, baseDir string, visiting map[string]bool) ([]Token, error) {
	var out []Token
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind == Ident && t.Text == "include" && i+1 < len(tokens) && tokens[i+1].Kind == String {
			incRel := tokens[i+1].Text
			incPath := incRel
			if !filepath.IsAbs(incPath) {
				incPath = filepath.Join(baseDir, incRel)
			}
			key := filepath.Clean(incPath)
			if visiting[key] {
				return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, incPath)
			}

			data, err := r.Load(incPath)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrIncludeNotFound, incPath)
			}
			subToks, err := Lex(data, incPath)
			if err != nil {
				return nil, err
			}

			visiting[key] = true
			resolved, err := r.resolve(subToks, filepath.Dir(incPath), visiting)
			delete(visiting, key)
			if err != nil {
				return nil, err
			}
			for _, rt := range resolved {
				if rt.Kind != EOF {
					out = append(out, rt)
				}
			}
			i++ // skip the include path string token
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
