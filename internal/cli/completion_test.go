package cli

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{"svg", "json", "dot", "tree", "text"}},
		{"partial word", "sv", []string{"svg", "json", "dot", "tree", "text"}},
		{"after one", "svg,", []string{"svg,json", "svg,dot", "svg,tree", "svg,text"}},
		{"after two", "svg,dot,t", []string{"svg,dot,json", "svg,dot,tree", "svg,dot,text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dir := completeFormats(nil, nil, tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if dir&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestSceneCommandsComplete(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"layout", "render", "preview"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil {
				t.Fatal(err)
			}
			exts, dir := cmd.ValidArgsFunction(cmd, nil, "")
			if !reflect.DeepEqual(exts, sceneExtensions) || dir != cobra.ShellCompDirectiveFilterFileExt {
				t.Errorf("scene completion = %v, %v", exts, dir)
			}
			if _, dir := cmd.ValidArgsFunction(cmd, []string{"home.json"}, ""); dir != cobra.ShellCompDirectiveNoFileComp {
				t.Error("a second argument should not complete")
			}
			if _, ok := cmd.GetFlagCompletionFunc("policy"); !ok {
				t.Error("--policy has no completion")
			}
		})
	}
}

func TestCompletionScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "linkdrift") {
				t.Errorf("%s script does not mention linkdrift", shell)
			}
		})
	}
}
