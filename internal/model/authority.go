package model

// AuthorityTier represents the classification of a headline source
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Press-release wires, regulators, company newsrooms
	TierSecondary AuthorityTier = 2 // Business and technology media
	TierTertiary  AuthorityTier = 3 // Aggregators, blogs, everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}
