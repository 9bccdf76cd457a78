package ai

import (
	"fmt"
	"strings"

	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/types"
)

const dialogueTemplate = `
Role: You are %s, a %s. Personality: %s.
Player Level: HSK %d.
Player Status: Sick=%t, Hunger=%d.
Recent conversation:
%s
User Input: "%s"

Inventory: %s
%s

Task:
1. %s
2. Respond to the player.
3. DETECT INTENT:
   - 'buy' : Buying items.
   - 'restore' : Free food/water (Neighbor).
   - 'heal' : Doctor curing sickness.
   - 'report' : Police helping (restores Face).
4. SUGGEST: Provide 3 simple phrases for the user.

Output JSON:
{
  "chineseResponse": "string",
  "pinyin": "string",
  "englishTranslation": "string",
  "faceChange": number,
  "action": { "type": "buy" | "restore" | "heal" | "report" | "none", "itemId": "string" },
  "suggestions": [
    { "chinese": "string", "pinyin": "string", "english": "string" }
  ]
}
`

const examTemplate = `
You are an HSK Examiner. Level: %d.
History:
%s
Input: "%s"
Task: Ask 3 questions total. Evaluate answers.
Output JSON: { "examinerResponse": "string", "pinyin": "string", "translation": "string", "finished": boolean, "passed": boolean }
`

const retryNote = "\nYour previous answer was not valid JSON. Reply with the JSON object only.\n"

func roleInstruction(npc types.NPC) string {
	switch {
	case npc.Role == content.RoleDoctor:
		return "You are a Doctor. If user says they are sick, hurt, or not feeling well, HEAL them (action type: 'heal'). Cost is 50 yuan usually but free if they are poor."
	case npc.Role == content.RolePolice:
		return "You are Police. If user reports a lost item or crime, RESTORE their Face/Reputation (action type: 'report')."
	case npc.IsVendor:
		return "You are a vendor. If user wants to buy, charge them (action type: 'buy')."
	default:
		return "You are a generous neighbor. If user is hungry/thirsty, GIVE food/water (action type: 'restore')."
	}
}

func complexityInstruction(playerHSK, npcHSK int) string {
	if playerHSK == 1 {
		return "USE EXTREMELY SIMPLE CHINESE. Short sentences. Max 5-8 words."
	}
	return fmt.Sprintf("Match vocabulary complexity to HSK %d.", npcHSK)
}

// inventoryLine lists what the NPC can hand out; non-vendors give for free
func inventoryLine(npc types.NPC, catalog []types.ShopItem) string {
	if len(catalog) == 0 {
		return "None"
	}
	entries := make([]string, 0, len(catalog))
	for _, item := range catalog {
		price := 0
		if npc.IsVendor {
			price = item.Price
		}
		entries = append(entries, fmt.Sprintf("%s (ID: %s, Price: %d)", item.Name, item.ID, price))
	}
	return strings.Join(entries, ", ")
}

func historyText(history []types.ChatMessage) string {
	if len(history) == 0 {
		return "(none)"
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Text))
	}
	return strings.Join(lines, "\n")
}

func buildDialoguePrompt(req types.DialogueRequest) string {
	npc := req.NPC
	return fmt.Sprintf(dialogueTemplate,
		npc.Name, npc.Role, npc.Personality,
		req.Stats.HSKLevel,
		req.Stats.IsSick, req.Stats.Hunger,
		historyText(req.History),
		req.Utterance,
		inventoryLine(npc, req.Catalog),
		roleInstruction(npc),
		complexityInstruction(req.Stats.HSKLevel, npc.HSKLevel))
}

func buildExamPrompt(req types.ExamRequest) string {
	return fmt.Sprintf(examTemplate, req.HSKLevel, historyText(req.History), req.Utterance)
}
