// Package directive validates the avatar function-call payload returned
// by the model. Tool output is untrusted remote input: fields may be
// absent, partially present, or outside their enums, so everything passes
// through defaulting here before it reaches a caller.
package directive

import (
	"encoding/json"
	"math/rand"
)

// Emotion is the avatar's primary facial expression.
type Emotion string

const (
	Smile     Emotion = "smile"
	Sad       Emotion = "sad"
	Angry     Emotion = "angry"
	Surprised Emotion = "surprised"
	FunnyFace Emotion = "funnyFace"
	Default   Emotion = "default"
)

// Gesture is a body-language tag the frontend can animate.
type Gesture string

const (
	HeadTilt Gesture = "headTilt"
	HeadNod  Gesture = "headNod"
	Shrug    Gesture = "shrug"
	Wink     Gesture = "wink"
	Talking0 Gesture = "talking_0"
	Talking1 Gesture = "talking_1"
	Talking2 Gesture = "talking_2"
)

var talkingGestures = []Gesture{Talking0, Talking1, Talking2}

// Directive is a fully validated avatar instruction. Gestures is never
// empty and always carries at least one talking tag, so the avatar's
// mouth keeps moving whenever speech is rendered.
type Directive struct {
	Emotion   Emotion
	Gestures  []Gesture
	Rationale string
}

// Args is the raw function-call payload as declared in the tool schema.
type Args struct {
	Emotion          string   `json:"emotion"`
	BodyLanguageCues []string `json:"bodyLanguageCues"`
	Reasoning        string   `json:"reasoning"`
}

// ParseJSON decodes raw tool arguments and validates them. Undecodable
// input is treated the same as an absent function call.
func ParseJSON(raw string, fallback Emotion) Directive {
	var args Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return Parse(nil, fallback)
	}
	return Parse(&args, fallback)
}

// Parse normalizes args into a usable directive. It never fails: invalid
// emotions fall back, unknown gestures are dropped, and a talking tag is
// appended when missing.
func Parse(args *Args, fallback Emotion) Directive {
	if args == nil {
		return Directive{
			Emotion:   fallback,
			Gestures:  []Gesture{randomTalking()},
			Rationale: "Default response",
		}
	}

	out := Directive{
		Emotion:   fallback,
		Rationale: args.Reasoning,
	}
	if e, ok := parseEmotion(args.Emotion); ok {
		out.Emotion = e
	}

	for _, raw := range args.BodyLanguageCues {
		if g, ok := parseGesture(raw); ok {
			out.Gestures = append(out.Gestures, g)
		}
	}
	if len(out.Gestures) == 0 {
		out.Gestures = []Gesture{randomTalking()}
	} else if !hasTalking(out.Gestures) {
		out.Gestures = append(out.Gestures, randomTalking())
	}

	return out
}

// Degraded is the fixed directive for failure responses: a sad face with
// no gestures, since no speech is rendered alongside it.
func Degraded() Directive {
	return Directive{Emotion: Sad, Gestures: []Gesture{}}
}

func parseEmotion(raw string) (Emotion, bool) {
	switch Emotion(raw) {
	case Smile, Sad, Angry, Surprised, FunnyFace, Default:
		return Emotion(raw), true
	default:
		return "", false
	}
}

func parseGesture(raw string) (Gesture, bool) {
	switch Gesture(raw) {
	case HeadTilt, HeadNod, Shrug, Wink, Talking0, Talking1, Talking2:
		return Gesture(raw), true
	default:
		return "", false
	}
}

func hasTalking(gestures []Gesture) bool {
	for _, g := range gestures {
		for _, talking := range talkingGestures {
			if g == talking {
				return true
			}
		}
	}
	return false
}

func randomTalking() Gesture {
	return talkingGestures[rand.Intn(len(talkingGestures))]
}
