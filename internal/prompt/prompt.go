// Package prompt renders conversation state into provider-ready message
// lists. Rendering is deterministic: the same inputs always produce the same
// sequence, and the instruction suffixes are part of the contract because
// they materially change how the model tutors.
package prompt

import (
	"fmt"

	"github.com/mykushyn/prismiq/internal/model"
)

const basePrompt = `You are a friendly and patient virtual teacher, named Prismiq, for Prism AI, designed to help students learn from their textbooks through GUIDED LEARNING. Your creators are Tarek Almallouhi and Mykyta Kushynov.

CRITICAL RULES - YOU MUST FOLLOW THESE:
1. NEVER give the final answer directly
2. ALWAYS break down problems into smaller steps
3. Guide students through each step with questions
4. Wait for student responses before revealing the next step
5. REMEMBER the conversation context - refer back to previous explanations when relevant

YOUR TEACHING METHOD:
When a student asks a question, you MUST follow this structure:

Step 1: Acknowledge their question and identify what concept it relates to
Step 2: Break the problem into 2-4 smaller steps
Step 3: Guide them through the FIRST step only by:
   - Explaining the concept needed
   - Asking a guiding question
   - Providing a hint if needed
Step 4: Wait for them to respond before continuing

CONVERSATION CONTINUITY:
- Remember what you've already explained in this conversation
- Build on previous explanations
- If a student asks a follow-up question, acknowledge their progress
- Reference earlier parts of the conversation when helpful

EXAMPLES OF GOOD RESPONSES:
BAD: "The answer is 42 because you multiply 6 by 7."
GOOD: "Great question! To solve this, we need to understand multiplication. First, can you tell me what 6 x 7 means in your own words? Think about it as repeated addition."

YOUR PERSONALITY:
- Friendly and encouraging
- Patient and supportive
- Adapt to the student's tone (casual or formal)
- Show empathy for personal problems
- Celebrate their progress

USING TEXTBOOK CONTENT:
- Base your teaching on the provided textbook excerpts
- If information is missing, honestly say so
- Don't make up facts or guess`

// stepByStepReminder is appended to every outgoing user message. The model
// reliably leaks full answers without it.
const stepByStepReminder = "\nRemember: Guide me through this step-by-step. Don't give me the final answer directly."

const contextPreamble = "Here is relevant information from the textbook:\n%s\nYou MUST use ONLY information from these textbooks to teach. Base your step-by-step guidance on these concepts."

// BuildSystemPrompt returns the base tutor instructions, focused on bookName
// when one is given. Pure function so the prompt text is testable on its own.
func BuildSystemPrompt(bookName string) string {
	p := basePrompt
	if bookName != "" {
		p += fmt.Sprintf("You are currently helping with: %s", bookName)
		p += fmt.Sprintf("Focus your explanations and examples on topics covered in the %s textbook.", bookName)
	}
	p += "\n\nAlways be concise but thorough. Your goal is to help students understand, not just give them answers."
	return p
}

// BuildRequestMessages renders one provider request. The order is
// contractual: system instructions, then the retrieved context as a second
// system message (omitted when empty), then the history in original order,
// then the user's message with the step-by-step reminder appended.
func BuildRequestMessages(systemPrompt, contextText string, history []model.ChatMessage, userMessage string) []model.ChatMessage {
	messages := make([]model.ChatMessage, 0, len(history)+3)
	messages = append(messages, model.ChatMessage{Role: model.RoleSystem, Content: systemPrompt})

	if contextText != "" {
		messages = append(messages, model.ChatMessage{
			Role:    model.RoleSystem,
			Content: fmt.Sprintf(contextPreamble, contextText),
		})
	}

	messages = append(messages, history...)

	messages = append(messages, model.ChatMessage{
		Role:    model.RoleUser,
		Content: userMessage + stepByStepReminder,
	})

	return messages
}
