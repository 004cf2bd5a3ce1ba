package bot

import (
	"fmt"
	"strings"
)

// Command is the classification of an inbound message. Exact literal
// match (case-insensitive) always wins over ordinary dialogue.
type Command int

const (
	CmdNone Command = iota
	CmdIdentity
	CmdReset
	CmdHelp
	CmdFortune
	CmdWhisper
)

var commandPhrases = map[Command][]string{
	CmdIdentity: {"我的id", "myid", "my id", "userid", "user id"},
	CmdReset:    {"clear", "清除", "重置"},
	CmdHelp:     {"help", "幫助", "說明"},
	CmdFortune:  {"毛孩占卜", "/fortune"},
	CmdWhisper:  {"愛寵小語", "小語", "寵物小語"},
}

// classifyCommand matches the trimmed, lowercased message against the
// fixed phrase table. No fuzzy matching: a message that merely contains
// a phrase is ordinary dialogue.
func classifyCommand(message string) Command {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for cmd, phrases := range commandPhrases {
		for _, phrase := range phrases {
			if normalized == phrase {
				return cmd
			}
		}
	}
	return CmdNone
}

const helpMessage = `🐕 寵物聊天機器人使用說明

• 直接傳送訊息，我會像寵物一樣回覆你
• 輸入「清除」可以重置對話記錄
• 輸入「說明」查看此訊息
• 輸入「我的ID」查看你的使用者ID
• 輸入「愛寵小語」獲取專屬小語
• 輸入「毛孩占卜」或「/fortune」生成占卜卡

快來跟我聊天吧！～`

const onboardingMessage = `👋 哈囉！歡迎使用寵物聊天機器人！

⚠️ 你還沒有設定專屬寵物喔！

請先在聊天視窗輸入「我的ID」，系統會顯示你的 User ID。

將該 ID 複製後提供給客服人員進行設定，設定完成後就可以開始聊天囉！`

const resetConfirmation = "嗚！我忘記之前的對話了，我們重新開始吧！"

// Two distinct in-character apologies: one for a persona that cannot be
// loaded, one for a backend that cannot answer.
const (
	personaApology = "嗚...主人，我現在記不起來自己是誰了 😢\n請稍後再試試看"
	backendApology = "嗚...主人，我現在有點不舒服，請稍後再試試看 🥺"
)

const (
	fortuneUnavailable = "嗚...占卜卡生成失敗了，請稍後再試～"
	whisperUnavailable = "嗚...現在沒有小語可以分享呢～"
)

func identityReply(userID string, bound bool) string {
	if bound {
		return fmt.Sprintf(`🆔 你的使用者資訊

User ID:
%s

✅ 你已經設定好寵物了，可以直接聊天喔～`, userID)
	}
	return fmt.Sprintf(`🆔 你的使用者資訊

User ID:
%s

⚠️ 你還沒有設定專屬寵物喔！

請將上面的 User ID 複製後，提供給客服人員進行設定。設定完成後就可以開始和你的虛擬寵物聊天囉！

📞 需要協助請聯絡客服`, userID)
}
