package models

// CategoryMiscellaneous is the terminal fallback category. The keyword rule
// stage returns it whenever no keyword matches, which guarantees the
// categorization cascade always produces a category.
const CategoryMiscellaneous = "miscellaneous"

// CategoryConfig is one entry of the category rule set: a category name and
// the keywords that map a description onto it. Keyword matching is a
// case-insensitive substring test. The order of entries in the rule file is
// significant: the first matching category wins.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig mirrors the structure of the categories YAML file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}
