package gemini

// personaInstruction is prepended to the configured system instruction.
// Placeholders: language code, sentiment.
const personaInstruction = `Always answer in the language with ISO code %q.
Adopt a %s tone.
Reply with plain text only, no markdown.

`

const defaultSentiment = "neutral"
