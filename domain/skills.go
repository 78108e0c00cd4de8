package domain

// DefaultSkillVocabulary is the known-skill set used by the closed validation
// mode, and seeded into the skills table on first migration.
var DefaultSkillVocabulary = []string{
	"speech generation",
	"audio generation",
	"web scraping",
	"adobe",
	"aws",
	"azure",
	"bootstrap",
	"c",
	"c++",
	"c#",
	"computer vision",
	"docker",
	"django",
	"excel",
	"express.js",
	"figma",
	"flutter",
	"gcp",
	"go",
	"graphql",
	"html/css",
	"java",
	"javascript",
	"kotlin",
	"large language models",
	"laravel",
	"nlp",
	"next.js",
	"node.js",
	"nosql",
	"php",
	"powerpoint",
	"python",
	"react",
	"react native",
	"redux",
	"ruby",
	"ruby on rails",
	"r",
	"rust",
	"sql",
	"spring",
	"swift",
	"swift ui",
	"svelte",
	"typescript",
	"vue.js",
	"kubernetes",
}
