package extract

import (
	"github.com/CharbelKaf/asset-tracker/internal/document"
	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

// fieldRating tracks how each draft field was obtained. Content-derived
// fields rate high, filename-derived fields medium, defaulted values medium,
// and anything else low. Absent optional fields carry a low rating in the
// per-field map but do not drag the overall rating down, so a missing invoice
// number is warned about rather than punished twice.
type fieldRating struct {
	value  string
	rating string
	scored bool
}

func contentField(v string) fieldRating {
	return fieldRating{value: v, rating: entity.ConfidenceHigh, scored: true}
}

func filenameField(v string) fieldRating {
	return fieldRating{value: v, rating: entity.ConfidenceMedium, scored: true}
}

func defaultedField(v string) fieldRating {
	return fieldRating{value: v, rating: entity.ConfidenceMedium, scored: true}
}

func absentField() fieldRating {
	return fieldRating{rating: entity.ConfidenceLow}
}

// overallConfidence rolls the scored field ratings up: high needs at least
// three high-rated fields and no low-rated one; two high or two medium
// ratings give medium; anything else is low.
func overallConfidence(fields map[string]fieldRating) string {
	var high, medium, low int
	for _, f := range fields {
		if !f.scored {
			continue
		}
		switch f.rating {
		case entity.ConfidenceHigh:
			high++
		case entity.ConfidenceMedium:
			medium++
		default:
			low++
		}
	}

	switch {
	case high >= 3 && low == 0:
		return entity.ConfidenceHigh
	case high >= 2 || medium >= 2:
		return entity.ConfidenceMedium
	default:
		return entity.ConfidenceLow
	}
}

// capForSource keeps OCR-derived drafts out of the high bucket: recognized
// text is close enough for pre-filling but still needs a human eye.
func capForSource(confidence, source string) string {
	if confidence != entity.ConfidenceHigh {
		return confidence
	}
	if source == document.SourceOCR || source == document.SourceHybrid {
		return entity.ConfidenceMedium
	}
	return confidence
}
