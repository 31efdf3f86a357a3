package bot

import (
	"fmt"
	"strings"

	"github.com/veeso/spazio-grigio-bot/internal/feed"
)

// Reply and notification texts. Irina speaks Italian.

const (
	textStart = "Ciao sono Irina e ti do il benvenuto in Spazio Grigio. Digita /help per cominciare"
	textHelp  = `Ciao sono Irina. Questi sono i comandi che puoi usare:

/ciaoirina — iscriviti alla newsletter di Spazio Grigio
/sialconsumismo — disinscrivi dalla newsletter di Spazio Grigio e rinnega tutti i tuoi valori morali
/buongiornoirina — comincia nel modo più minimalista la tua giornata con un video della mia morning routine
/videominimalista — ottieni il link al mio ultimo video
/serasenzatv — una vita nel minimalismo è una vita senza TV. Per fortuna c'è Spazio Grigio
/start — dai inizio al tuo percorso verso il minimalismo
/help — visualizza l'aiuto`

	textSubscribed   = "Ciao sono Irina e ti do il benvenuto in Spazio Grigio. Da ora riceverai tutti gli aggiornamenti per proseguire nel tuo percorso verso il Minimalismo."
	textUnsubscribed = "Hai deciso di abbandonare il tuo percorso verso il Minimalismo. Mi dispiace tanto, se vuoi cambiare idea, ricomincia da qui /ciaoirina"
	textRestart      = "Ciao sono Irina. Ora devo fare yoga, ma quando avrò finito tornerò qui con importanti novità."
	textNoVideos     = "Ciao sono Irina. Non ho trovato nessun video per te"
)

// RestartText is broadcast to every subscriber when the bot shuts down.
func RestartText() string { return textRestart }

// GoodMorningText composes the scheduled morning greeting around a random
// morning-routine video.
func GoodMorningText() string {
	return fmt.Sprintf(
		"Buongiorno sono Irina. Segui la mia morning routine per cominciare la tua giornata 👉 %s",
		randomMorningVideo(),
	)
}

// RenderNewsletter is the notification body for a new newsletter mail.
func RenderNewsletter(it feed.Item) string {
	return fmt.Sprintf("Ciao sono Irina.\n%s\n\n%s", it.Title, it.Body)
}

// RenderVideo is the notification body for a new video.
func RenderVideo(it feed.Item) string {
	return fmt.Sprintf("Ciao sono Irina. Ho appena pubblicato questo nuovo mio video: %s\n👉 %s", it.Title, it.URL)
}

// RenderInstagram is the notification body for a new Instagram post.
func RenderInstagram(it feed.Item) string {
	return fmt.Sprintf("Ciao sono Irina. Ho appena pubblicato questo nuovo mio post su Instagram: %s\n%s\n👉 %s", it.Title, it.Summary, it.URL)
}

func renderVideoList(items []feed.Item) string {
	var b strings.Builder
	b.WriteString("Ciao sono Irina. Ecco cosa puoi guardare questa sera:\n\n")
	// newest first
	for i := len(items) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "• %s 👉 %s\n", items[i].Title, items[i].URL)
	}
	return b.String()
}
