package cli

import (
	"testing"

	"github.com/asimos-bot/software-watermark/pkg/watermark"
)

func TestNodeRowState(t *testing.T) {
	tests := []struct {
		state watermark.NodeState
		want  string
	}{
		{watermark.NodeState{Node: 0, Target: -1, Bit: 1, Pushed: true, Outer: true}, "outer"},
		{watermark.NodeState{Node: 1, Target: 0, Bit: 1, Pushed: true}, "inner"},
		{watermark.NodeState{Node: 3, Target: -1, Bit: -1}, "spliced"},
	}
	for _, tt := range tests {
		row := nodeRow(tt.state)
		if got := row[len(row)-1]; got != tt.want {
			t.Errorf("nodeRow(%d) state = %q, want %q", tt.state.Node, got, tt.want)
		}
	}
}
