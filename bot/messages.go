package bot

// Registry names the built-in bots are addressable by.
const (
	FaceBotName = "facebot"
	ISpyBotName = "ispybot"
)

// Outbound message texts. Kept in one place so tests and transports can refer
// to them by name.
const (
	// FaceBot.
	MsgGreetingFmt = "Hi **%s**!"
	MsgEchoFmt     = "%s said '%s'\n"

	MsgEmotionNegative = "You don't seem entirely pleased. Would you like to provide some feedback?"
	MsgEmotionAlarm    = "You seem like you need help. Would you like for me to explain what I can help you with?"
	MsgEmotionHappy    = "You seem happy! Would you like to leave a 5 star review?"

	// ISpyBot.
	MsgDoYouWantToPlay     = "Hi! I'm Spy Bot. Do you want to play I Spy? (yes/no)"
	MsgLookingForObject    = "Great! Show me what you can see and I'll choose something for you to guess."
	MsgMaybeLater          = "No problem. Say hello whenever you fancy a game."
	MsgISpy                = "I spy, with my little eye, something I can see! What do you think it is?"
	MsgWrongGuess          = "Nope, that's not what I'm spying! Have another guess."
	MsgCorrectGuessFmt     = "You got it! I was spying **%s** and it took you %d guesses."
	MsgCouldntFindAnything = "I couldn't spy anything in that image! My eyes must be playing tricks on me."
	MsgPlayAgain           = "Show me something else and we can play again."
)

// Conversation state property names.
const (
	faceStateProperty = "faceBotState"
	gameStateProperty = "iSpyBotState"
	dialogStackProp   = "iSpyDialogStack"
)
