package augment

import "github.com/cognicore/resparse/pkg/resparse/labels"

// Default returns the augmenter the generate command applies to a section:
// light recasing of the dominant entity labels, occasional loss of
// separators and field labels, and stray whitespace.
func Default(section labels.Section) *Augmenter {
	var transforms []Transform
	switch section {
	case labels.Basics:
		transforms = []Transform{
			ChangeCase(RandomCase, labels.Name, labels.Headline),
			DeleteToken(0.3, labels.FieldLabel),
		}
	case labels.Work:
		transforms = []Transform{
			ChangeCase(RandomCase, labels.Company, labels.Position),
			DeleteToken(0.2, labels.Other),
		}
	case labels.Education:
		transforms = []Transform{
			ChangeCase(RandomCase, labels.Institution, labels.Area, labels.StudyType),
			DeleteToken(0.3, labels.FieldLabel, labels.Bullet),
		}
	case labels.Skills:
		transforms = []Transform{
			ChangeCase(RandomCase, labels.Name, labels.Level),
			DeleteToken(0.2, labels.Bullet),
		}
	}
	transforms = append(transforms,
		DeleteToken(0.1, labels.ItemSep),
		InsertWhitespace(0.02),
	)

	aug, err := New(Prob(0.25), transforms...)
	if err != nil {
		panic(err)
	}
	return aug
}
