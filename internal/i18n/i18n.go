// Package i18n holds the supported UI languages and the few strings the backend emits itself.
package i18n

import (
	"net/http"
	"strings"
)

type Language string

const (
	Hebrew  Language = "he"
	English Language = "en"
	Italian Language = "it"
	French  Language = "fr"
	German  Language = "de"
	Polish  Language = "pl"
	Danish  Language = "da"
	Dutch   Language = "nl"
	Spanish Language = "es"

	Default = English
)

var supported = []Language{Hebrew, English, Italian, French, German, Polish, Danish, Dutch, Spanish}

// Names are what the model is told to write in.
var names = map[Language]string{
	Hebrew:  "Hebrew (עברית)",
	English: "English",
	French:  "French",
	Italian: "Italian",
	German:  "German",
	Polish:  "Polish",
	Danish:  "Danish",
	Dutch:   "Dutch",
	Spanish: "Spanish",
}

var websiteReady = map[Language]string{
	Hebrew:  "האתר שלך מוכן!",
	English: "Your website is ready!",
	French:  "Votre site est prêt !",
	Italian: "Il tuo sito è pronto!",
	German:  "Deine Website ist fertig!",
	Polish:  "Twoja strona jest gotowa!",
	Danish:  "Din hjemmeside er klar!",
	Dutch:   "Je website is klaar!",
	Spanish: "¡Tu sitio web está listo!",
}

var projectSaved = map[Language]string{
	Hebrew:  "הפרויקט נשמר בהצלחה",
	English: "Project saved successfully",
	French:  "Projet enregistré",
	Italian: "Progetto salvato",
	German:  "Projekt gespeichert",
	Polish:  "Projekt zapisany",
	Danish:  "Projekt gemt",
	Dutch:   "Project opgeslagen",
	Spanish: "Proyecto guardado",
}

func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

func IsSupported(code string) bool {
	_, ok := names[Language(code)]
	return ok
}

// Parse returns the language for code, or Default when code is unknown.
func Parse(code string) Language {
	if IsSupported(code) {
		return Language(code)
	}
	return Default
}

// Name falls back to English for unknown codes.
func Name(code string) string {
	return names[Parse(code)]
}

func WebsiteReady(code string) string {
	return websiteReady[Parse(code)]
}

func ProjectSaved(code string) string {
	return projectSaved[Parse(code)]
}

// IsRTL reports whether the UI should render right-to-left.
func IsRTL(code string) bool {
	return code == string(Hebrew) || code == "ar"
}

// FromRequest reads the caller's language from the lang query parameter, then
// Accept-Language. ok is false when neither names a supported language.
func FromRequest(r *http.Request) (code string, ok bool) {
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); IsSupported(q) {
		return q, true
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if IsSupported(tag) {
			return tag, true
		}
	}
	return "", false
}
