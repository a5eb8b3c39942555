package mcts

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

// labelledNode is what the node template is executed with.
type labelledNode struct {
	ID     int
	Player string
	Visits uint32
	Reward float32
	Mean   float32
	Flags  string
	State  string
}

// ToDot renders the tree as a Graphviz graph. Nodes that have never been visited are left out unless all is true.
func (t *MCTS[S]) ToDot(all bool) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.IsNotVisited() && !n.IsRoot() && !all {
			continue
		}
		ln := labelledNode{
			ID:     n.ID(),
			Player: fmt.Sprintf("%v", n.player),
			Visits: n.visits,
			Reward: n.total,
			Mean:   n.Mean(),
			Flags:  nodeFlags(n.expanded, n.terminal),
			State:  htmlState(n.state),
		}
		buf.Reset()
		if err := tmpl.Execute(&buf, ln); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		if err := g.AddNode("G", dotID(n.id), attrs); err != nil {
			panic(err)
		}
		if n.parent.isValid() {
			if err := g.AddEdge(dotID(n.parent), dotID(n.id), true, nil); err != nil {
				panic(err)
			}
		}
	}
	return g.String()
}

func dotID(n naughty) string { return fmt.Sprintf("n%d", int(n)) }

func nodeFlags(expanded, terminal bool) string {
	switch {
	case terminal:
		return "terminal"
	case expanded:
		return "expanded"
	}
	return "leaf"
}

// htmlState formats a state so that it can sit inside an HTML-like graphviz label.
func htmlState(state interface{}) string {
	s := html.EscapeString(fmt.Sprintf("%v", state))
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "<BR/>")
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Player</TD><TD>{{.Player}}</TD></TR>
<TR><TD>Visits</TD><TD>{{.Visits}}</TD></TR>
<TR><TD>Reward</TD><TD>{{.Reward}}</TD></TR>
<TR><TD>Mean</TD><TD>{{printf "%.3f" .Mean}}</TD></TR>
<TR><TD>Status</TD><TD>{{.Flags}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
</TABLE>
>`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("node").Parse(tmplRaw))
}
