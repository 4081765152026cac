package directive

import "testing"

func isTalking(g Gesture) bool {
	return g == Talking0 || g == Talking1 || g == Talking2
}

func TestParseMissingCallUsesFallback(t *testing.T) {
	d := Parse(nil, Smile)
	if d.Emotion != Smile {
		t.Fatalf("expected smile fallback, got %s", d.Emotion)
	}
	if len(d.Gestures) != 1 || !isTalking(d.Gestures[0]) {
		t.Fatalf("expected single talking gesture, got %v", d.Gestures)
	}
	if d.Rationale != "Default response" {
		t.Fatalf("expected default rationale, got %q", d.Rationale)
	}
}

func TestParseInvalidEmotionFallsBack(t *testing.T) {
	d := Parse(&Args{Emotion: "ecstatic", BodyLanguageCues: []string{"talking_1"}}, Sad)
	if d.Emotion != Sad {
		t.Fatalf("expected sad fallback, got %s", d.Emotion)
	}
}

func TestParseAppendsTalkingGesture(t *testing.T) {
	d := Parse(&Args{Emotion: "smile", BodyLanguageCues: []string{"headNod", "wink"}}, Smile)
	if len(d.Gestures) != 3 {
		t.Fatalf("expected appended talking gesture, got %v", d.Gestures)
	}
	if d.Gestures[0] != HeadNod || d.Gestures[1] != Wink {
		t.Fatalf("recognized gestures must keep their order, got %v", d.Gestures)
	}
	if !isTalking(d.Gestures[2]) {
		t.Fatalf("expected talking tag appended, got %v", d.Gestures)
	}
}

func TestParseDropsUnknownGestures(t *testing.T) {
	d := Parse(&Args{Emotion: "angry", BodyLanguageCues: []string{"backflip", "talking_2", "moonwalk"}}, Smile)
	if len(d.Gestures) != 1 || d.Gestures[0] != Talking2 {
		t.Fatalf("unknown gestures must be dropped silently, got %v", d.Gestures)
	}
	if d.Emotion != Angry {
		t.Fatalf("valid emotion must survive, got %s", d.Emotion)
	}
}

func TestParseEmptyGestureListGetsTalking(t *testing.T) {
	d := Parse(&Args{Emotion: "surprised"}, Smile)
	if len(d.Gestures) != 1 || !isTalking(d.Gestures[0]) {
		t.Fatalf("expected single talking gesture, got %v", d.Gestures)
	}
}

func TestParseJSONMalformed(t *testing.T) {
	d := ParseJSON(`{"emotion": `, Smile)
	if d.Emotion != Smile || len(d.Gestures) != 1 || !isTalking(d.Gestures[0]) {
		t.Fatalf("malformed payload must behave like an absent call, got %+v", d)
	}
}

func TestParseJSONFullPayload(t *testing.T) {
	d := ParseJSON(`{"emotion":"funnyFace","bodyLanguageCues":["shrug","talking_0"],"reasoning":"joke landed"}`, Smile)
	if d.Emotion != FunnyFace {
		t.Fatalf("got emotion %s", d.Emotion)
	}
	if d.Rationale != "joke landed" {
		t.Fatalf("got rationale %q", d.Rationale)
	}
	if len(d.Gestures) != 2 {
		t.Fatalf("got gestures %v", d.Gestures)
	}
}

func TestDegraded(t *testing.T) {
	d := Degraded()
	if d.Emotion != Sad || len(d.Gestures) != 0 {
		t.Fatalf("unexpected degraded directive: %+v", d)
	}
}
