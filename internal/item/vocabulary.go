package item

// Default sentinels and labels for Korean Diablo IV tooltips.
const (
	DefaultUnknownName = "알 수 없는 아이템"
	DefaultOtherType   = "기타"
	DefaultPowerLabel  = "아이템 위력"
	DefaultLevelLabel  = "요구 레벨"
	DefaultGradeMarker = "등급"
)

// DefaultTypeLabels is the closed set of item-type labels: helm, chest armor,
// gloves, pants, boots, amulet, ring, sword, dagger, polearm, two-handed sword,
// two-handed axe, two-handed mace, staff, wand, focus, shield and totem.
var DefaultTypeLabels = []string{
	"투구",
	"가슴 방어구",
	"장갑",
	"바지",
	"장화",
	"목걸이",
	"반지",
	"도검",
	"단검",
	"미늘창",
	"양손 검",
	"양손 도끼",
	"양손 철퇴",
	"지팡이",
	"마법봉",
	"중심점",
	"방패",
	"토템",
}

// Vocabulary holds the locale-specific labels the parser matches against.
//
// Empty fields are filled from the defaults by NewParser, so a vocabulary
// loaded from a partial config file only needs to name what it changes.
type Vocabulary struct {
	// UnknownName is used as the item name when the text has no lines.
	UnknownName string

	// OtherType is the item type when no label matches.
	OtherType string

	// TypeLabels is the closed set of item-type labels, in match priority order.
	TypeLabels []string

	// PowerLabel precedes the item power digits.
	PowerLabel string

	// LevelLabel precedes ": <digits>" for the required level.
	LevelLabel string

	// GradeMarker marks a line as an affix candidate.
	GradeMarker string
}

// DefaultVocabulary returns the Korean Diablo IV vocabulary.
func DefaultVocabulary() Vocabulary {
	labels := make([]string, len(DefaultTypeLabels))
	copy(labels, DefaultTypeLabels)
	return Vocabulary{
		UnknownName: DefaultUnknownName,
		OtherType:   DefaultOtherType,
		TypeLabels:  labels,
		PowerLabel:  DefaultPowerLabel,
		LevelLabel:  DefaultLevelLabel,
		GradeMarker: DefaultGradeMarker,
	}
}

func (v Vocabulary) withDefaults() Vocabulary {
	def := DefaultVocabulary()
	if v.UnknownName == "" {
		v.UnknownName = def.UnknownName
	}
	if v.OtherType == "" {
		v.OtherType = def.OtherType
	}
	if v.PowerLabel == "" {
		v.PowerLabel = def.PowerLabel
	}
	if v.LevelLabel == "" {
		v.LevelLabel = def.LevelLabel
	}
	if v.GradeMarker == "" {
		v.GradeMarker = def.GradeMarker
	}

	labels := make([]string, 0, len(v.TypeLabels))
	for _, l := range v.TypeLabels {
		if l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		labels = def.TypeLabels
	}
	v.TypeLabels = labels
	return v
}
