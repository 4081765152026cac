package ai

import (
	"testing"

	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
)

func TestBuildContextEmptyHistory(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestBuildContextJoinsInOrder(t *testing.T) {
	turns := []chat.Turn{
		{You: "hello", Cortex: "hi there"},
		{You: "how are you", Cortex: "doing great"},
	}
	want := "hello\nhi there\nhow are you\ndoing great"
	if got := BuildContext(turns); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBuildContextSanitizesReplies(t *testing.T) {
	turns := []chat.Turn{
		{You: "hi", Cortex: "Cortex: <b>hello</b> friend"},
	}
	want := "hi\nhello friend"
	if got := BuildContext(turns); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestIsResetCommand(t *testing.T) {
	cases := map[string]bool{
		"/start":             true,
		"please /START over": true,
		"start over":         false,
		"hello":              false,
	}
	for message, want := range cases {
		if got := IsResetCommand(message); got != want {
			t.Errorf("IsResetCommand(%q) = %t, want %t", message, got, want)
		}
	}
}
