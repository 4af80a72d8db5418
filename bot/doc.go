// Package bot contains the two conversational agents driven by externally
// produced vision-analysis events: FaceBot, which greets recognized users and
// reacts to emotion changes, and ISpyBot, which plays a guessing game over
// the objects the vision collaborator tags in an image.
//
// Each bot is a turn dispatcher: per incoming activity it loads conversation
// state, classifies the event, advances its dialog stack or mutates state
// directly, persists explicitly, and buffers outbound messages on the turn.
package bot
