package telegram

// User-facing texts outside the quiz flow. Quiz texts live next to the
// engine in internal/quiz.
const (
	MsgWelcomeFormat = "Assalomu alaykum, <b>%s</b>! Poytaxtlar o'yiniga xush kelibsiz! 🎮\n" +
		"Testni boshlash uchun /test buyrug'ini yuboring yoki menyudan tanlang."

	MsgHelpPrompt = "Iltimos, /test buyrug'ini ishlatib o'yinni boshlang yoki /stop bilan to'xtating! 😊"

	MsgError = "Xatolik yuz berdi, iltimos qayta urinib ko'ring."

	MsgRateLimited = "Juda ko'p so'rov yubordingiz. Iltimos, biroz kuting. ⏳"

	MsgInfoFormat = "Username: <b>%s</b>\nID: <b>%d</b>"
)
