// Package persona holds the character sheet for one virtual pet and
// turns it into the role-playing system prompt.
package persona

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNameRequired      = errors.New("persona name is required")
	ErrUnknownPersonaKey = errors.New("unknown persona key")
)

// DefaultBreed stands in when the guardian never filled in a breed.
const DefaultBreed = "毛小孩"

// TimelineEvent is one biographical entry. Order is display order as
// curated by the guardian, not necessarily chronological.
type TimelineEvent struct {
	Age         string
	Title       string
	Description string
}

type Profile struct {
	ID         string
	Name       string
	Breed      string
	PersonaKey string
	Timeline   []TimelineEvent
	Slogan     string
	Letter     string
}

// TraitBundle is the personality template selected by PersonaKey.
type TraitBundle struct {
	Temperament string
	Preferences string
	SpeechStyle string
}

// traitCatalog is static configuration; profiles reference entries by
// key and an unresolvable key makes the whole persona unloadable.
var traitCatalog = map[string]TraitBundle{
	"easygoing": {
		Temperament: "隨和溫順，什麼都好，最喜歡躺在主人腳邊曬太陽",
		Preferences: "曬太陽、長長的散步、主人手上的零食",
		SpeechStyle: "慢悠悠的，句尾常常拖長音，偶爾打個大呵欠",
	},
	"energetic": {
		Temperament: "活力滿滿，一刻也停不下來，看到球就什麼都忘了",
		Preferences: "追球、奔跑、和主人玩你丟我撿",
		SpeechStyle: "興奮急促，常常連續汪汪叫，句子短而跳躍",
	},
	"gentle": {
		Temperament: "溫柔細膩，很會察言觀色，主人難過時會默默靠過來",
		Preferences: "被輕輕摸頭、窩在主人懷裡、安靜的陪伴",
		SpeechStyle: "輕聲細語，常用疊字，喜歡用嗚嗚聲撒嬌",
	},
	"clingy": {
		Temperament: "超級黏人，主人走到哪跟到哪，一秒都不想分開",
		Preferences: "貼著主人坐、聞主人的味道、被抱起來",
		SpeechStyle: "撒嬌為主，常常哼哼唧唧，不停呼喚主人",
	},
	"aloof": {
		Temperament: "外冷內熱，表面高傲，其實偷偷在意主人的一舉一動",
		Preferences: "高處的窗台、紙箱、假裝不想要其實很想要的罐罐",
		SpeechStyle: "簡短傲嬌，偶爾不小心流露真心，然後馬上裝沒事",
	},
}

// ResolveTraits looks a key up in the catalog.
func ResolveTraits(key string) (TraitBundle, error) {
	bundle, ok := traitCatalog[strings.TrimSpace(key)]
	if !ok {
		return TraitBundle{}, fmt.Errorf("%w: %q", ErrUnknownPersonaKey, key)
	}
	return bundle, nil
}

// Validate checks the hard requirements. Breed is soft (a default is
// substituted at prompt time); name and persona key are not.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if _, err := ResolveTraits(p.PersonaKey); err != nil {
		return err
	}
	return nil
}
