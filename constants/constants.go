package constants

// Conversation display rules.
const (
	SentinelTitle  = "New conversation"
	PreviewMaxLen  = 120
	TitleMaxWords  = 6
	AttachmentsMax = 5
)

// Reply templates used by the deterministic generator. The %s slot receives
// the user content, the %d slot the attachment count.
const (
	ReplyTemplate            = "You said: %q. Here's a thoughtful response to your message."
	ReplyTemplateAttachments = "You said: %q and attached %d file(s). Here's a thoughtful response to your message."
	ReplyTemplateRegenerated = "Here's another take on %q, regenerated for you."
)

// User-facing messages reused across API responses.
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgEmailTaken         = "An account with this email already exists."
	MsgInvalidResetToken  = "The reset link is invalid or has expired."
	MsgNoUser             = "No account found to reset."
	MsgUnauthorized       = "You must be signed in to do that."
	MsgNotFound           = "We could not find what you're looking for."
	MsgInvalidModel       = "Unknown model."
	MsgMessageNotFound    = "Message not found."
	MsgNoUserMessage      = "Nothing to regenerate yet."
	MsgInvalidAttachment  = "This file can't be attached."
	MsgInternal           = "Something went wrong. Please try again."
)

// Background task names.
const (
	TaskSessionSweep = "session_sweep"
)
