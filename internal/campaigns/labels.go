package campaigns

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hindiLabels = map[string]string{
	"Renovation":       "जीर्णोद्धार",
	"Construction":     "निर्माण",
	"Festival":         "उत्सव",
	"Daily Operations": "दैनिक संचालन",
	"Charity":          "दान",
	"Equipment":        "उपकरण",
	"Draft":            "मसौदा",
	"Pending":          "समीक्षाधीन",
	"Active":           "सक्रिय",
	"Completed":        "पूर्ण",
	"Cancelled":        "रद्द",
}

func init() {
	for key, msg := range hindiLabels {
		if err := message.SetString(language.Hindi, key, msg); err != nil {
			panic(err)
		}
	}
}
