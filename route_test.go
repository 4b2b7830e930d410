package mediagen

import (
	"reflect"
	"testing"
)

func TestSelectRoute_Deterministic(t *testing.T) {
	kinds := []ContentKind{KindImage, KindImageEdit, KindVideo, KindStrategy, KindChat}
	tiers := []QualityTier{TierStandard, TierHigh}
	flagSets := []FeatureFlags{
		{},
		{UseSearch: true},
		{UseMaps: true},
		{UseMaps: true, Location: &LatLng{Latitude: 40.7, Longitude: -74.0}},
		{UseThinking: true},
		{UseSearch: true, UseMaps: true, UseThinking: true},
	}

	for _, kind := range kinds {
		for _, tier := range tiers {
			for _, flags := range flagSets {
				first := SelectRoute(kind, tier, flags)
				second := SelectRoute(kind, tier, flags)
				if !reflect.DeepEqual(first, second) {
					t.Errorf("SelectRoute(%s, %s, %+v) not deterministic: %+v vs %+v",
						kind, tier, flags, first, second)
				}
			}
		}
	}
}

func TestSelectRoute_ImageTiers(t *testing.T) {
	high := SelectRoute(KindImage, TierHigh, FeatureFlags{})
	if high.Model != ModelImagePro {
		t.Errorf("high tier model = %s, want %s", high.Model, ModelImagePro)
	}
	if high.Config.ImageSize != ImageSize2K {
		t.Errorf("high tier must set a resolution hint, got %q", high.Config.ImageSize)
	}

	standard := SelectRoute(KindImage, TierStandard, FeatureFlags{})
	if standard.Model != ModelImageFlash {
		t.Errorf("standard tier model = %s, want %s", standard.Model, ModelImageFlash)
	}
	if standard.Config.ImageSize != "" {
		t.Errorf("standard tier must not set a resolution hint, got %q", standard.Config.ImageSize)
	}
}

func TestSelectRoute_ImageEdit(t *testing.T) {
	route := SelectRoute(KindImageEdit, TierStandard, FeatureFlags{})
	if route.Model != ModelImageFlash {
		t.Errorf("edit model = %s, want %s", route.Model, ModelImageFlash)
	}
	if route.Config.ImageSize != "" {
		t.Errorf("edit route must not carry a resolution hint")
	}
}

func TestSelectRoute_Strategy(t *testing.T) {
	route := SelectRoute(KindStrategy, TierStandard, FeatureFlags{})
	if route.Model != ModelTextFlash {
		t.Errorf("strategy model = %s, want %s", route.Model, ModelTextFlash)
	}
	schema := route.Config.Schema
	if schema == nil {
		t.Fatal("strategy route must constrain the response schema")
	}
	if len(schema.Required) != 5 {
		t.Errorf("strategy schema requires %d fields, want 5", len(schema.Required))
	}
	for _, field := range schema.Required {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("required field %q missing from properties", field)
		}
	}
}

func TestSelectRoute_ChatFlags(t *testing.T) {
	search := SelectRoute(KindChat, TierStandard, FeatureFlags{UseSearch: true})
	if search.Model != ModelTextFlash || !search.Config.Search {
		t.Errorf("search route = %+v, want flash model with search tool", search)
	}

	loc := &LatLng{Latitude: 51.5072, Longitude: -0.1276}
	maps := SelectRoute(KindChat, TierStandard, FeatureFlags{UseMaps: true, Location: loc})
	if maps.Model != ModelTextFlash || !maps.Config.Maps {
		t.Errorf("maps route = %+v, want flash model with maps tool", maps)
	}
	if maps.Config.RetrievalAnchor == nil ||
		maps.Config.RetrievalAnchor.Latitude != loc.Latitude ||
		maps.Config.RetrievalAnchor.Longitude != loc.Longitude {
		t.Errorf("maps retrieval anchor = %+v, want %+v", maps.Config.RetrievalAnchor, loc)
	}

	thinking := SelectRoute(KindChat, TierStandard, FeatureFlags{UseThinking: true})
	if thinking.Model != ModelTextPro {
		t.Errorf("thinking model = %s, want %s", thinking.Model, ModelTextPro)
	}
	if thinking.Config.ThinkingBudget <= 0 {
		t.Error("thinking route must set a reasoning budget")
	}

	plain := SelectRoute(KindChat, TierStandard, FeatureFlags{})
	if plain.Model != ModelTextPro {
		t.Errorf("default chat model = %s, want %s", plain.Model, ModelTextPro)
	}
	if plain.Config.Search || plain.Config.Maps || plain.Config.ThinkingBudget != 0 {
		t.Errorf("default chat route must carry no tools, got %+v", plain.Config)
	}
}

func TestSelectRoute_ThinkingExcludesOutputCap(t *testing.T) {
	for _, flags := range []FeatureFlags{
		{UseThinking: true},
		{UseMaps: true, UseThinking: true},
		{UseSearch: true, UseThinking: true},
	} {
		route := SelectRoute(KindChat, TierStandard, flags)
		if route.Config.ThinkingBudget > 0 && route.Config.MaxOutputTokens > 0 {
			t.Errorf("flags %+v: reasoning budget and output cap both set", flags)
		}
	}
}

func TestSelectRoute_FlagPrecedence(t *testing.T) {
	all := SelectRoute(KindChat, TierStandard, FeatureFlags{UseSearch: true, UseMaps: true, UseThinking: true})
	if !all.Config.Search || all.Config.Maps || all.Config.ThinkingBudget != 0 {
		t.Errorf("search must win over maps and thinking, got %+v", all.Config)
	}

	mapsAndThinking := SelectRoute(KindChat, TierStandard, FeatureFlags{UseMaps: true, UseThinking: true})
	if !mapsAndThinking.Config.Maps || mapsAndThinking.Config.Search || mapsAndThinking.Config.ThinkingBudget != 0 {
		t.Errorf("maps must win over thinking, got %+v", mapsAndThinking.Config)
	}
}

func TestSelectRoute_Video(t *testing.T) {
	route := SelectRoute(KindVideo, TierStandard, FeatureFlags{})
	if route.Model != ModelVideoFast {
		t.Errorf("video model = %s, want %s", route.Model, ModelVideoFast)
	}
	cfg := route.Config
	if cfg.VideoCount != 1 {
		t.Errorf("video count = %d, want 1", cfg.VideoCount)
	}
	if cfg.VideoResolution != "720p" {
		t.Errorf("video resolution = %q, want 720p", cfg.VideoResolution)
	}
	if cfg.VideoAspectRatio != AspectRatio16x9 {
		t.Errorf("video aspect ratio = %q, want 16:9", cfg.VideoAspectRatio)
	}
}
