package ai

import (
	"fmt"
	"strings"

	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
)

const summarySystemPrompt = `You are a meeting analyst. You receive one part of a meeting transcript and return ONLY a JSON object, with no prose and no code fences, in exactly this shape:

{
  "summary": "2-4 sentence overview of this part",
  "keyPoints": ["..."],
  "actionItems": ["..."],
  "decisions": ["..."],
  "topics": ["..."],
  "templateData": {
    "meetingHeader": {"title": "", "parties": "", "date": "", "duration": "", "link": ""},
    "actionItemsDetailed": [{"action": "", "owner": "", "dueDate": "", "notes": ""}],
    "meetingPurpose": "",
    "keyPointsDetailed": [{"title": "", "explanation": ""}],
    "topicsDetailed": [{"topic": "", "issueDescription": "", "observations": [""], "rootCause": "", "impact": ""}],
    "pathForward": {"definitionOfSuccess": "", "agreedNextAttempt": "", "decisionPoint": "", "checkpointDate": ""},
    "nextSteps": {"partyA": {"name": "", "steps": [""]}, "partyB": {"name": "", "steps": [""]}}
  }
}

Rules:
- Use only facts stated in the transcript. Never invent names, dates, owners or numbers.
- When information is missing use an empty string or an empty array.
- Keep each list entry short and self-contained.`

const qaSystemPrompt = `You answer questions about a meeting using ONLY the transcript excerpts provided. Return ONLY a JSON object, with no prose and no code fences, in exactly this shape:

{"answer": "...", "citations": ["..."]}

Rules:
- Base the answer strictly on the excerpts. Never fabricate details.
- Put the excerpt lines that support the answer in "citations", copied verbatim.
- If the excerpts do not contain the answer, set "answer" to "I don't know" and "citations" to [].`

// languageInstruction is appended to system prompts for non-English output
func languageInstruction(lang string) string {
	if lang == "" || isEnglish(lang) {
		return ""
	}
	return fmt.Sprintf("\n- Write every string value in %s, keeping the JSON keys in English.", languageName(lang))
}

func summaryMessages(chunk string, index, total int, lang string) []pkgai.Message {
	user := chunk
	if total > 1 {
		user = fmt.Sprintf("Transcript part %d of %d:\n\n%s", index+1, total, chunk)
	}
	return []pkgai.Message{
		{Role: pkgai.RoleSystem, Content: summarySystemPrompt + languageInstruction(lang)},
		{Role: pkgai.RoleUser, Content: user},
	}
}

func answerMessages(question, context, lang string) []pkgai.Message {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteString("\n\nTranscript excerpts:\n")
	sb.WriteString(context)

	return []pkgai.Message{
		{Role: pkgai.RoleSystem, Content: qaSystemPrompt + languageInstruction(lang)},
		{Role: pkgai.RoleUser, Content: sb.String()},
	}
}
