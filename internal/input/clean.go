package input

import (
	"regexp"
	"strings"
)

// Clean strips the wrapping that language models put around a JSON answer
// so the batch can be pasted as-is:
//  1. Thinking / reasoning block removal
//  2. Markdown code fence removal
//  3. Preamble removal ("Here are the transitions:")
//
// Text that is already bare JSON is returned trimmed and otherwise unchanged.
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeCodeFences(text)
	text = removePreamble(text)
	return strings.TrimSpace(text)
}

// --- Phase 1: thinking blocks ---

// RE2 has no backreferences, so every tag pair is spelled out.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// --- Phase 2: code fences ---

// fenceRe captures the body of the first ``` or ```json fenced block.
var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")

func removeCodeFences(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// --- Phase 3: preamble ---

// preambleRe matches an introductory sentence ending in a colon right
// before the opening bracket, in English or French.
var preambleRe = regexp.MustCompile(
	`(?i)^(?:here(?:'s| is| are)|voici|voilà|certainly|sure|of course|bien sûr)[^\[\n]*:\s*`,
)

func removePreamble(text string) string {
	if loc := preambleRe.FindStringIndex(text); loc != nil && loc[0] == 0 {
		return strings.TrimSpace(text[loc[1]:])
	}
	return text
}
