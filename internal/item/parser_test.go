package item

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTooltip = `강철 방패
고유 방패
아이템 위력 725
요구 레벨 : 50
+15.0% 공격 속도
극대화 확률 5.0%
+1,250 생명력
-3 자원 소모
2등급 정복자 위상
방패
`

func TestParseItem_Empty(t *testing.T) {
	got := ParseItem("")

	assert.Equal(t, DiabloItem{
		Name:          "알 수 없는 아이템",
		Power:         0,
		RequiredLevel: 0,
		Type:          "기타",
		Options:       []ItemOption{},
		RawText:       "",
	}, got)
}

func TestParseItem_WhitespaceOnly(t *testing.T) {
	text := "  \n\t\r\n   \n"
	got := ParseItem(text)

	assert.Equal(t, DefaultUnknownName, got.Name)
	assert.Equal(t, DefaultOtherType, got.Type)
	assert.Empty(t, got.Options)
	assert.Equal(t, text, got.RawText)
}

func TestParseItem_ShieldExample(t *testing.T) {
	got := ParseItem("방패\n아이템 위력 725\n요구 레벨 : 50\n+15.0% 공격 속도\n방패")

	assert.Equal(t, 725, got.Power)
	assert.Equal(t, 50, got.RequiredLevel)
	assert.Equal(t, "방패", got.Type)
	assert.Equal(t, "방패", got.Name)
	assert.Equal(t, []ItemOption{{Name: "공격 속도", Value: "+15.0%"}}, got.Options)
}

func TestParseItem_FullTooltip(t *testing.T) {
	got := ParseItem(sampleTooltip)

	assert.Equal(t, "강철 방패", got.Name)
	assert.Equal(t, "방패", got.Type, "second line carries the first type label")
	assert.Equal(t, 725, got.Power)
	assert.Equal(t, 50, got.RequiredLevel)
	assert.Equal(t, []ItemOption{
		{Name: "공격 속도", Value: "+15.0%"},
		{Name: "극대화 확률", Value: "5.0%"},
		{Name: "생명력", Value: "+1,250"},
		{Name: "등급 정복자 위상", Value: "2"},
	}, got.Options)
	assert.Equal(t, sampleTooltip, got.RawText)
}

func TestParseItem_Power(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"with space", "이름\n아이템 위력 800", 800},
		{"no space", "이름\n아이템 위력800", 800},
		{"inline", "이름\n고대 아이템 위력 925 (+25)", 925},
		{"first match wins", "이름\n아이템 위력 100\n아이템 위력 200", 100},
		{"missing", "이름\n요구 레벨 : 10", 0},
		{"label without digits", "이름\n아이템 위력 없음", 0},
		{"overflow falls back to zero", "이름\n아이템 위력 99999999999999999999999", 0},
		{"no-break space", "이름\n아이템 위력\u00a0725", 725},
		{"ideographic space", "이름\n아이템 위력\u3000725", 725},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseItem(tt.text).Power)
		})
	}
}

func TestParseItem_RequiredLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"spaced colon", "이름\n요구 레벨 : 60", 60},
		{"tight colon", "이름\n요구 레벨:60", 60},
		{"no colon", "이름\n요구 레벨 60", 0},
		{"missing", "이름", 0},
		{"searched in original text", "이름\n장갑 요구 레벨 : 35 이상", 35},
		{"ideographic spaces around colon", "이름\n요구 레벨\u3000:\u300050", 50},
		{"no-break space before colon", "이름\n요구 레벨\u00a0:\u00a050", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseItem(tt.text).RequiredLevel)
		})
	}
}

func TestParseItem_UnicodeSpacesBeforeNumbers(t *testing.T) {
	got := ParseItem("이름\n아이템 위력\u00a0725\n요구 레벨\u3000:\u300050")

	assert.Equal(t, 725, got.Power)
	assert.Equal(t, 50, got.RequiredLevel)
}

func TestParseItem_NameIsFirstLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "수확자의 투구\n투구", "수확자의 투구"},
		{"leading blank lines", "\n\n   \n  피의 반지  \n반지", "피의 반지"},
		{"noise is kept verbatim", "~\n목걸이", "~"},
		{"power line as name", "아이템 위력 500\n장화", "아이템 위력 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseItem(tt.text).Name)
		})
	}
}

func TestParseItem_NameLineIsNotReused(t *testing.T) {
	got := ParseItem("+20% 방패 막기\n아이템 위력 100")

	assert.Equal(t, "+20% 방패 막기", got.Name)
	assert.Equal(t, DefaultOtherType, got.Type, "name line must not set the type")
	assert.Empty(t, got.Options, "name line must not become an option")
	assert.Equal(t, 100, got.Power)
}

func TestParseItem_TypeFirstMatchWins(t *testing.T) {
	got := ParseItem("이름\n희귀 장갑\n전설 반지\n투구")

	assert.Equal(t, "장갑", got.Type)
}

func TestParseItem_TypeLeftmostLabelInLine(t *testing.T) {
	got := ParseItem("이름\n반지 또는 목걸이")

	assert.Equal(t, "반지", got.Type)
}

func TestParseItem_MultiWordTypes(t *testing.T) {
	for _, label := range []string{"가슴 방어구", "양손 검", "양손 도끼", "양손 철퇴"} {
		t.Run(label, func(t *testing.T) {
			assert.Equal(t, label, ParseItem("이름\n전설 "+label).Type)
		})
	}
}

func TestParseItem_TypeLineNotAnOption(t *testing.T) {
	got := ParseItem("이름\n고유 장갑 +5%\n+10% 이동 속도")

	assert.Equal(t, "장갑", got.Type)
	assert.Equal(t, []ItemOption{{Name: "이동 속도", Value: "+10%"}}, got.Options)
}

func TestParseItem_LaterTypeLineCanBeOption(t *testing.T) {
	got := ParseItem("이름\n투구\n+12% 방패 막기 확률")

	assert.Equal(t, "투구", got.Type)
	assert.Equal(t, []ItemOption{{Name: "방패 막기 확률", Value: "+12%"}}, got.Options)
}

func TestParseItem_OptionCandidates(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []ItemOption
	}{
		{"plus prefix", "+250 의지력", []ItemOption{{Name: "의지력", Value: "+250"}}},
		{"percent anywhere", "극대화 피해 12.5%", []ItemOption{{Name: "극대화 피해", Value: "12.5%"}}},
		{"grade marker", "위상 3등급", []ItemOption{{Name: "위상 등급", Value: "3"}}},
		{"negative value", "재사용 대기시간 -4.5%", []ItemOption{{Name: "재사용 대기시간", Value: "-4.5%"}}},
		{"thousands separator", "+1,024 방어도", []ItemOption{{Name: "방어도", Value: "+1,024"}}},
		{"not a candidate", "생명력 1200", nil},
		{"candidate without digits", "+ 이동 속도 %", nil},
		{"power line excluded", "아이템 위력 +25%", nil},
		{"bare number", "+42", nil},
		{"bare percent", "42%", nil},
		{"single character label", "+42 힘", nil},
		{"two character label", "+42 힘력", []ItemOption{{Name: "힘력", Value: "+42"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseItem("이름\n" + tt.line)
			want := tt.want
			if want == nil {
				want = []ItemOption{}
			}
			assert.Equal(t, want, got.Options)
		})
	}
}

func TestParseItem_BareNumberDoesNotGrowOptions(t *testing.T) {
	base := ParseItem("이름\n+10% 공격 속도")
	withNoise := ParseItem("이름\n+10% 공격 속도\n42%\n+7")

	assert.Len(t, base.Options, 1)
	assert.Equal(t, base.Options, withNoise.Options)
}

func TestParseItem_FirstNumericRunIsValue(t *testing.T) {
	// The label's own numeral is taken as the value; this is accepted behavior.
	got := ParseItem("이름\n2회 연속 공격 +15%")

	assert.Equal(t, []ItemOption{{Name: "회 연속 공격 +15%", Value: "2"}}, got.Options)
}

func TestParseItem_StraySeparatorIsValue(t *testing.T) {
	got := ParseItem("이름\n등급, 고유")

	assert.Equal(t, []ItemOption{{Name: "등급 고유", Value: ","}}, got.Options)
}

func TestParseItem_OptionsKeepOrderAndDuplicates(t *testing.T) {
	got := ParseItem("이름\n+5% 이동 속도\n+3% 공격 속도\n+5% 이동 속도")

	assert.Equal(t, []ItemOption{
		{Name: "이동 속도", Value: "+5%"},
		{Name: "공격 속도", Value: "+3%"},
		{Name: "이동 속도", Value: "+5%"},
	}, got.Options)
}

func TestParseItem_CRLF(t *testing.T) {
	got := ParseItem("룬 장화\r\n장화\r\n+8% 이동 속도\r\n")

	assert.Equal(t, "룬 장화", got.Name)
	assert.Equal(t, "장화", got.Type)
	assert.Equal(t, []ItemOption{{Name: "이동 속도", Value: "+8%"}}, got.Options)
}

func TestParseItem_RawTextUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		sampleTooltip,
		"\uFEFF이름\r\n\t+1% 힘 \n",
		"noise %%% +++ ---",
	}

	for _, in := range inputs {
		assert.Equal(t, in, ParseItem(in).RawText)
	}
}

func TestParseItem_Invariants(t *testing.T) {
	noise := []string{
		"%%%%",
		"+\n+\n+",
		"아이템 위력\n요구 레벨 :",
		strings.Repeat("등급 1% ", 50),
		"□□□\n\n\n+0%",
	}

	labels := make(map[string]bool)
	for _, l := range DefaultTypeLabels {
		labels[l] = true
	}

	for _, in := range noise {
		got := ParseItem(in)
		assert.GreaterOrEqual(t, got.Power, 0)
		assert.GreaterOrEqual(t, got.RequiredLevel, 0)
		assert.True(t, got.Type == DefaultOtherType || labels[got.Type], "type %q outside vocabulary", got.Type)
		assert.NotNil(t, got.Options)
	}
}

func TestNewParser_CustomVocabulary(t *testing.T) {
	p := NewParser(Vocabulary{
		UnknownName: "Unknown Item",
		OtherType:   "Other",
		TypeLabels:  []string{"Helm", "Two-Handed Sword", ""},
		PowerLabel:  "Item Power",
		LevelLabel:  "Requires Level",
		GradeMarker: "Rank",
	})

	got := p.Parse("Godslayer Crown\nLegendary Helm\n750 Item Power\nRequires Level: 60\n+12.5% Critical Strike Chance\nRank 2 Aspect")

	assert.Equal(t, "Godslayer Crown", got.Name)
	assert.Equal(t, "Helm", got.Type)
	assert.Equal(t, 0, got.Power, "digits precede the label, so the pattern does not match")
	assert.Equal(t, 60, got.RequiredLevel)
	assert.Equal(t, []ItemOption{
		{Name: "Critical Strike Chance", Value: "+12.5%"},
		{Name: "Rank  Aspect", Value: "2"},
	}, got.Options)

	empty := p.Parse("")
	assert.Equal(t, "Unknown Item", empty.Name)
	assert.Equal(t, "Other", empty.Type)
}

func TestNewParser_EmptyVocabularyUsesDefaults(t *testing.T) {
	p := NewParser(Vocabulary{})

	assert.Equal(t, DefaultVocabulary(), p.Vocabulary())
	assert.Equal(t, ParseItem(sampleTooltip), p.Parse(sampleTooltip))
}

func TestNewParser_LabelsAreLiteral(t *testing.T) {
	p := NewParser(Vocabulary{TypeLabels: []string{"a.b", "(x)"}})

	assert.Equal(t, DefaultOtherType, p.Parse("name\naxb").Type)
	assert.Equal(t, "(x)", p.Parse("name\nitem (x)").Type)
}

func TestParser_VocabularyIsCopy(t *testing.T) {
	p := NewParser(DefaultVocabulary())

	v := p.Vocabulary()
	v.TypeLabels[0] = "changed"

	assert.Equal(t, "투구", p.Vocabulary().TypeLabels[0])
}

func TestDiabloItem_JSON(t *testing.T) {
	data, err := json.Marshal(ParseItem(""))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "알 수 없는 아이템",
		"power": 0,
		"requiredLevel": 0,
		"type": "기타",
		"options": [],
		"rawText": ""
	}`, string(data))
}
