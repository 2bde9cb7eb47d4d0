package io

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/asimos-bot/software-watermark/pkg/graph"
)

// ErrUndirected is returned by [ReadDOT] for "graph" (undirected) input.
var ErrUndirected = errors.New("dot: undirected graphs are not supported")

type dotFile struct {
	Strict bool       `@"strict"?`
	Kind   string     `@( "digraph" | "graph" )`
	Name   string     `@( Ident | String | Number )?`
	Stmts  []*dotStmt `"{" ( @@ ";"? )* "}"`
}

type dotStmt struct {
	Attr   *dotAttrStmt `  @@`
	Assign *dotAttr     `| @@`
	Chain  *dotChain    `| @@`
}

type dotAttrStmt struct {
	Target string     `@( "graph" | "node" | "edge" )`
	Attrs  []*dotAttr `( "[" ( @@ ( ";" | "," )? )* "]" )+`
}

type dotAttr struct {
	Key   string `@( Ident | String | Number )`
	Value string `"=" @( Ident | String | Number | HTML )`
}

// dotChain is a node statement when Rest is empty, an edge chain otherwise.
type dotChain struct {
	First *dotNodeID   `@@`
	Rest  []*dotNodeID `( Arrow @@ )*`
	Attrs []*dotAttr   `( "[" ( @@ ( ";" | "," )? )* "]" )*`
}

type dotNodeID struct {
	Name string   `@( Ident | String | Number )`
	Port []string `( ":" @( Ident | String | Number ) )*`
}

var dotLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/|#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "HTML", Pattern: `<[^<>]*>`},
	{Name: "Arrow", Pattern: `->|--`},
	{Name: "Number", Pattern: `-?(\.[0-9]+|[0-9]+(\.[0-9]*)?)`},
	{Name: "Ident", Pattern: `[a-zA-Z_\x{80}-\x{10FFFF}][a-zA-Z0-9_\x{80}-\x{10FFFF}]*`},
	{Name: "Punct", Pattern: `[{}\[\];,=:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parseDOT = participle.MustBuild[dotFile](
	participle.Lexer(dotLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// ReadDOT parses a DOT digraph from r into a graph. See the package
// documentation for the accepted subset.
func ReadDOT(r io.Reader) (*graph.Graph, error) {
	f, err := parseDOT.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	return buildDOT(f)
}

// ImportDOT reads a DOT file at path.
func ImportDOT(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDOT(f)
}

func buildDOT(f *dotFile) (*graph.Graph, error) {
	if f.Kind != "digraph" {
		return nil, ErrUndirected
	}

	ids := make(map[string]int)
	g := graph.New(0)
	index := func(n *dotNodeID) int {
		if i, ok := ids[n.Name]; ok {
			return i
		}
		i := g.Append()
		ids[n.Name] = i
		return i
	}

	// Invisible edges are layout hints, not part of the graph.
	edgeInvis := false
	for _, st := range f.Stmts {
		switch {
		case st.Attr != nil && st.Attr.Target == "edge":
			if style, ok := lookupAttr(st.Attr.Attrs, "style"); ok {
				edgeInvis = isInvis(style)
			}
		case st.Chain != nil:
			invis := edgeInvis
			if style, ok := lookupAttr(st.Chain.Attrs, "style"); ok {
				invis = isInvis(style)
			}
			from := index(st.Chain.First)
			for _, next := range st.Chain.Rest {
				to := index(next)
				if !invis {
					g.Connect(from, to)
				}
				from = to
			}
		}
	}

	if namedByIndex(ids) {
		return g, nil
	}
	if err := g.TopologicalSort(); err != nil {
		return nil, fmt.Errorf("sort: %w", err)
	}
	return g, nil
}

// namedByIndex reports whether every node is named by its own index, as in
// render/nodelink output. Such graphs keep their numbering.
func namedByIndex(ids map[string]int) bool {
	for name, i := range ids {
		if name != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

func lookupAttr(attrs []*dotAttr, key string) (string, bool) {
	value, found := "", false
	for _, a := range attrs {
		if a.Key == key {
			value, found = a.Value, true
		}
	}
	return value, found
}

func isInvis(style string) bool {
	for _, s := range strings.Split(style, ",") {
		if strings.TrimSpace(s) == "invis" {
			return true
		}
	}
	return false
}
