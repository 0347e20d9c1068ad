package quiz

// User-facing quiz texts. The transport sends these with HTML parse mode.
const (
	MsgSelectCount = "Necha ta test yechmoqchisiz? 🤔"
	MsgCorrect     = "To'g'ri javob! ✅"
	MsgStopped     = "Bot to'xtatildi! Qayta ishga tushirish uchun /start buyrug'ini yuboring."

	countLabelFormat = "%d ta test"
	questionFormat   = "<b>%d</b>-savol: %sning poytaxti qaysi shahar? 🏙️"
	incorrectFormat  = "Noto'g'ri! 😔 To'g'ri javob: <b>%s</b>"
	summaryFormat    = "O'yin tugadi! 🎉\nSiz <b>%d</b> ta savoldan <b>%d</b> tasiga to'g'ri javob berdingiz.\nFoiz: <b>%.1f%%</b>"
)

// Option is one selectable inline button: a visible label plus the callback
// token the transport sends back.
type Option struct {
	Label string
	Data  string
}

// Message is an outgoing message description, rendered by the transport
// layer (options become an inline keyboard, two per row).
type Message struct {
	Text    string
	Options []Option
}
