package dialog

// promoPhotoID is the Telegram file ID of the promotional image sent before
// the welcome message.
const promoPhotoID = "AgACAgIAAxkDAAMiZ7hmP7jMxCSWyPuPNUru_PXsmWkAAtHrMRtJ8cBJFJx_lD_HfxABAAMCAAN5AAM2BA"

const welcomeText = "<b>В Казани на этой неделе пройдет бесплатный мастер-класс для детей 5-14 лет!</b>\n\n" +
	"Ваш ребенок:\n\n" +
	"⭐️ Постучит на барабанах, сыграет на гитаре и фортепиано свои первые композиции\n\n" +
	"⭐️ Попробует себя в вокале, споет любимую песню под руководством опытного педагога\n\n" +
	"✅ Текущий уровень не важен. Для детей возраста 5-14 лет\n\n" +
	"✅ Продолжительность – 1,5 часа. Ничего брать с собой не нужно\n\n" +
	"Чтобы записаться на бесплатный мастер-класс, укажите возраст вашего ребенка 👇"

const phoneRequestText = "Спасибо! Остался последний шаг😊\n\n" +
	"Укажите ваш номер телефона.\n" +
	"Наш администратор отправит вам расписание мастер-классов на ближайшую неделю и согласует точное время 🤗"

const phoneRepromptText = "Пожалуйста, укажите номер телефона."

const thanksText = "Спасибо!\n\n" +
	"Скоро наш администратор свяжется с вами и согласует дату и время мастер-класса!\n\n" +
	"Подпишитесь на наш канал в Telegram, чтобы быть в курсе акций и новых предложений: https://t.me/neshkolakidskzn"

const failureText = "Произошла ошибка при обработке вашей заявки. Пожалуйста, попробуйте позже."

const toastSelectedPrefix = "Вы выбрали: "

const toastUnknownChoice = "Неизвестный выбор"

const toastStaleChoice = "Нажмите /start, чтобы начать заново."
