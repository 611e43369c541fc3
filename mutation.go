package genetic_paths

// All probabilities in MutationConfig are percentages in [0,100].
type MutationConfig struct {
	Probability            float32         `toml:"probability" yaml:"probability"`
	TranslationProbability float32         `toml:"translation_probability" yaml:"translation_probability"`
	InsertionProbability   float32         `toml:"insertion_probability" yaml:"insertion_probability"`
	DeletionProbability    float32         `toml:"deletion_probability" yaml:"deletion_probability"`
	TranslationMode        TranslationMode `toml:"translation_mode" yaml:"translation_mode"`
	MaxTranslationOffset   float32         `toml:"max_translation_offset" yaml:"max_translation_offset"`
}

// MutationCounts tallies the operators that changed a path during one
// generation. An operator that rolled but could not apply, such as a
// deletion on a path already at MinimumPathPoints, is not counted, so the
// totals can be lower than the number of successful rolls.
type MutationCounts struct {
	Translations uint32
	Insertions   uint32
	Deletions    uint32
}

func (mc *MutationCounts) Add(kind MutationKind) {
	switch kind {
	case TranslationMutation:
		mc.Translations++
	case InsertionMutation:
		mc.Insertions++
	case DeletionMutation:
		mc.Deletions++
	}
}

func (mc MutationCounts) Total() uint32 {
	return mc.Translations + mc.Insertions + mc.Deletions
}

type Mutator struct {
	Config *MutationConfig
	Rand   Rand
}

func NewMutator(config *MutationConfig, r Rand) *Mutator {
	if r == nil {
		r = rng
	}
	return &Mutator{Config: config, Rand: r}
}

// Mutate walks paths in place. A selected path rolls independently for
// translation and insertion; deletion is only rolled when no point was
// inserted.
func (m *Mutator) Mutate(paths []*Path) MutationCounts {
	var counts MutationCounts
	for _, path := range paths {
		if !m.roll(m.Config.Probability) {
			continue
		}
		for _, kind := range m.apply(path) {
			counts.Add(kind)
		}
		path.UpdateLength()
	}
	return counts
}

func (m *Mutator) apply(path *Path) []MutationKind {
	var applied []MutationKind

	if m.roll(m.Config.TranslationProbability) && path.NodeCount() > 1 {
		path.Translate(m.Config.TranslationMode, m.Config.MaxTranslationOffset, m.Rand)
		applied = append(applied, TranslationMutation)
	}

	inserted := false
	if m.roll(m.Config.InsertionProbability) {
		inserted = path.Insert(m.Rand)
		if inserted {
			applied = append(applied, InsertionMutation)
		}
	}

	if !inserted && m.roll(m.Config.DeletionProbability) {
		if path.Delete(m.Rand) {
			applied = append(applied, DeletionMutation)
		}
	}
	return applied
}

func (m *Mutator) roll(percent float32) bool {
	return randRange(m.Rand, 0, 100) < percent
}
