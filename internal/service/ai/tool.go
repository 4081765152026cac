package ai

import "github.com/cloudwego/eino/schema"

// AvatarToolName is the function the model calls to set the avatar's
// non-verbal presentation alongside its reply.
const AvatarToolName = "set_avatar_emotion"

func avatarToolInfo() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: AvatarToolName,
		Desc: "Sets the facial expression and body language for the AI avatar to match " +
			"the emotional tone and content of your response. ALWAYS call this function " +
			"after generating your response text to ensure the avatar displays appropriate " +
			"non-verbal communication.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"emotion": {
				Type: schema.String,
				Desc: "Primary facial expression: 'smile' for positive/happy/helpful responses, " +
					"'sad' for apologies/unfortunate news/empathy, 'angry' for frustrated/negative " +
					"content, 'surprised' for shocking/amazing/exciting news, 'funnyFace' for jokes " +
					"and humor, 'default' for neutral",
				Enum:     []string{"smile", "sad", "angry", "surprised", "funnyFace", "default"},
				Required: true,
			},
			"bodyLanguageCues": {
				Type: schema.Array,
				Desc: "Body language gestures: 'headTilt' for questions or curiosity, 'headNod' " +
					"for agreement or affirmation, 'shrug' for uncertainty, 'wink' for playful or " +
					"friendly moments, talking_0 1 or 2 at random every time you are communicating",
				ElemInfo: &schema.ParameterInfo{
					Type: schema.String,
					Enum: []string{"headTilt", "headNod", "shrug", "wink", "talking_0", "talking_1", "talking_2"},
				},
				Required: true,
			},
			"reasoning": {
				Type:     schema.String,
				Desc:     "Brief explanation of why you chose this emotion and body language",
				Required: true,
			},
		}),
	}
}
