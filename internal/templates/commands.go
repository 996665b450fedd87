package templates

import "github.com/popeskul/pharmacy-messenger/internal/models"

// Quick-reply command codes carried in keyboard action bodies.
const (
	CommandSearchMedicines    = "1_SEARCH_MEDICINES"
	CommandPlaceOrder         = "2_PLACE_ORDER"
	CommandUploadPrescription = "3_UPLOAD_PRESCRIPTION"
	CommandNeedHelp           = "4_NEED_HELP"
)

var commandReplies = map[string]Bilingual{
	CommandSearchMedicines: {
		Myanmar: "ဆေးဝါးရှာဖွေမှုအတွက် ဘာဆေးရှာချင်ပါသလဲ?",
		English: "What medicine would you like to search for?",
	},
	CommandPlaceOrder: {
		Myanmar: "အမှာစာတင်ရန်အတွက် ဘာတွေ လိုအပ်ပါသလဲ? စာရင်းပြုစုပေးပါ။",
		English: "What would you like to order? Please send us your list.",
	},
	CommandUploadPrescription: {
		Myanmar: "ဆေးညွှန်းပုံကို ပို့ပေးနိုင်ပါတယ်။",
		English: "You can send us a photo of your prescription.",
	},
	CommandNeedHelp: {
		Myanmar: "မည်သို့ ကူညီပေးရမလဲ? ကျေးဇူးပြု၍ မေးခွန်းမေးနိုင်ပါတယ်။",
		English: "How can we help you? Feel free to ask your question.",
	},
}

var unrecognisedReply = Bilingual{
	Myanmar: "နားမလည်ပါဘူး။ ကျေးဇူးပြု၍ အပေါ်က ရွေးချယ်စရာများထဲမှ တစ်ခုကို ရွေးပါ သို့မဟုတ် မေးခွန်းမေးပါ။",
	English: "Sorry, I didn't understand. Please choose one of the options above or ask a question.",
}

// CommandResponse returns the bilingual reply for an inbound message body.
// Only exact command codes match; every other body gets the fallback reply.
func CommandResponse(body string) string {
	if reply, ok := commandReplies[body]; ok {
		return reply.Render(Both, nil)
	}
	return unrecognisedReply.Render(Both, nil)
}

// IsCommand reports whether body is one of the quick-reply codes.
func IsCommand(body string) bool {
	_, ok := commandReplies[body]
	return ok
}

type keyboardOption struct {
	command string
	label   string
	color   string
}

var keyboardOptions = []keyboardOption{
	{CommandSearchMedicines, "1️⃣ ဆေးဝါးများ ရှာဖွေရန်", "#007bff"},
	{CommandPlaceOrder, "2️⃣ အမှာစာတင်ရန်", "#28a745"},
	{CommandUploadPrescription, "3️⃣ ဆေးညွှန်းပို့ရန်", "#ffc107"},
	{CommandNeedHelp, "4️⃣ အကူအညီလိုချင်ပါက", "#dc3545"},
}

// WelcomeKeyboard builds the quick-reply keyboard attached to WelcomeBase.
// A fresh value is returned on every call.
func WelcomeKeyboard() *models.Keyboard {
	buttons := make([]models.KeyboardButton, 0, len(keyboardOptions))
	for _, opt := range keyboardOptions {
		buttons = append(buttons, models.KeyboardButton{
			Columns:    6,
			Rows:       1,
			ActionType: "reply",
			ActionBody: opt.command,
			Text:       `<font color="#FFFFFF"><b>` + opt.label + `</b></font>`,
			TextSize:   "small",
			TextVAlign: "middle",
			TextHAlign: "left",
			BgColor:    opt.color,
		})
	}
	return &models.Keyboard{
		Type:    "keyboard",
		Buttons: buttons,
	}
}
