// Package scoring implements the integer-scaled ranking model: field-type
// base scores, position boost, tier base and match-type bucket bonus.
package scoring

// FieldType mirrors boundary.FieldType's three values without importing
// it, keeping scoring a leaf package with no dependency on the corpus
// model.
type FieldType int

const (
	FieldContent FieldType = iota
	FieldHeading
	FieldTitle
)

// Base scores per field type, scaled x10.
const (
	BaseTitle   = 1000
	BaseHeading = 100
	BaseContent = 10
)

// BaseScore returns the field-type base score.
func BaseScore(ft FieldType) int {
	switch ft {
	case FieldTitle:
		return BaseTitle
	case FieldHeading:
		return BaseHeading
	default:
		return BaseContent
	}
}

// MaxPositionBoost is the maximum value PositionBoost can return.
const MaxPositionBoost = 5

// PositionBoost returns min(5, floor(5*(len-min(offset,len))/len)) for
// len > 0, or 5 when len == 0. Earlier offsets score at least as high as
// later ones within the same document.
func PositionBoost(offset, length int) int {
	if length == 0 {
		return MaxPositionBoost
	}
	o := offset
	if o > length {
		o = length
	}
	boost := (5 * (length - o)) / length
	if boost > MaxPositionBoost {
		boost = MaxPositionBoost
	}
	return boost
}

// Tier identifies which of the three search tiers produced a match.
type Tier int

const (
	TierExact Tier = iota
	TierPrefix
	TierFuzzy
)

// Tier base scores. Strict ordering: T1 > T2 > T3 by construction.
const (
	TierBaseExact  = 1000
	TierBasePrefix = 500

	// Fuzzy tier base depends on edit distance.
	TierBaseFuzzyDistance1 = 300
	TierBaseFuzzyDistance2 = 150
	TierBaseFuzzyOther     = 50
)

// TierBase returns the tier base score. For TierFuzzy, distance selects
// among the distance-dependent bases (only 1 and 2 are reachable given the
// max-distance-2 automaton; other values fall back to the lowest base).
func TierBase(t Tier, distance int) int {
	switch t {
	case TierExact:
		return TierBaseExact
	case TierPrefix:
		return TierBasePrefix
	case TierFuzzy:
		switch distance {
		case 1:
			return TierBaseFuzzyDistance1
		case 2:
			return TierBaseFuzzyDistance2
		default:
			return TierBaseFuzzyOther
		}
	default:
		return 0
	}
}

// MatchType classifies the kind of section a match lands in, used both
// for the bucket bonus and the deep-linking tie-break of §4.8.
type MatchType int

const (
	MatchTitle MatchType = iota
	MatchSection
	MatchSubsection
	MatchSubsubsection
	MatchContent
)

// Bucket bonuses per match type.
const (
	BonusTitle        = 50
	BonusSection      = 40
	BonusSubsection   = 30
	BonusSubsubsection = 20
	BonusContent      = 0
)

// BucketBonus returns the match-type bucket bonus.
func BucketBonus(mt MatchType) int {
	switch mt {
	case MatchTitle:
		return BonusTitle
	case MatchSection:
		return BonusSection
	case MatchSubsection:
		return BonusSubsection
	case MatchSubsubsection:
		return BonusSubsubsection
	default:
		return BonusContent
	}
}

// MatchTypeFromHeadingLevel derives a MatchType from field type and
// heading level: title fields are MatchTitle; headings are bucketed by
// level (H1/H2 -> section, H3 -> subsection, H4+ -> subsubsection);
// everything else is MatchContent.
func MatchTypeFromHeadingLevel(ft FieldType, headingLevel int) MatchType {
	switch ft {
	case FieldTitle:
		return MatchTitle
	case FieldHeading:
		switch {
		case headingLevel <= 2:
			return MatchSection
		case headingLevel == 3:
			return MatchSubsection
		default:
			return MatchSubsubsection
		}
	default:
		return MatchContent
	}
}

// DistancePenalty is subtracted from fuzzy-tier (T3) postings only.
func DistancePenalty(t Tier, distance int) int {
	if t != TierFuzzy {
		return 0
	}
	return distance
}

// PostingScore computes the precomputed per-posting base score stored
// alongside each posting: base(field_type) + position_boost. Tier base and
// match bonus are added at query time since they depend on which tier
// produced the match, not on the posting itself.
func PostingScore(ft FieldType, offset, docTextLen int) int {
	return BaseScore(ft) + PositionBoost(offset, docTextLen)
}

// FinalScore computes the full per-posting score of §4.9: base(field_type)
// + position_boost + tier_base + match_bonus - distance_penalty.
func FinalScore(postingScore int, t Tier, distance int, mt MatchType) int {
	return postingScore + TierBase(t, distance) + BucketBonus(mt) - DistancePenalty(t, distance)
}
