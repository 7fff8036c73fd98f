package inline

import (
	"fmt"

	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/pkg/utils"
)

// Switch-to-PM prompts and their start parameters.
const (
	ResultsLabel   = "📁 Results"
	NoResultsLabel = "❌ No results"
	SubscribeLabel = "You have to subscribe to the channel ✔"
	ResultsParam   = "start"
	NoResultsParam = "okay"
	SubscribeParam = "subscribe"
	maxLabelPhrase = 48
)

// Assemble builds the answer for a page of rendered results. The cache time is the
// process-wide policy on both the results and the no-results path.
func Assemble(results []*models.InlineResult, phrase, nextOffset string, cacheTime int) *models.Answer {
	shown := utils.Truncate(phrase, maxLabelPhrase)
	if len(results) > 0 {
		text := ResultsLabel
		if shown != "" {
			text += " for " + shown
		}
		return &models.Answer{
			Results:           results,
			CacheTime:         cacheTime,
			SwitchPMText:      text,
			SwitchPMParameter: ResultsParam,
			NextOffset:        nextOffset,
		}
	}
	text := NoResultsLabel
	if shown != "" {
		text += fmt.Sprintf(" for %q", shown)
	}
	return &models.Answer{
		Results:           []*models.InlineResult{},
		CacheTime:         cacheTime,
		SwitchPMText:      text,
		SwitchPMParameter: NoResultsParam,
		NextOffset:        "",
	}
}

// Denied is the answer for users who fail the access gate. It is never cached.
func Denied() *models.Answer {
	return &models.Answer{
		Results:           []*models.InlineResult{},
		CacheTime:         0,
		IsPersonal:        true,
		SwitchPMText:      SubscribeLabel,
		SwitchPMParameter: SubscribeParam,
	}
}
