package catalog

import "time"

const day = 24 * time.Hour

// DemoProjects returns the showcase entries installed when a fresh store is
// seeded. Ids start at 1 and timestamps are relative to now.
func DemoProjects(now time.Time) []*Project {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	agoPtr := func(d time.Duration) *time.Time { t := ago(d); return &t }

	return []*Project{
		{
			ID:          1,
			Title:       "Neural Network Visualizer",
			Description: "An interactive tool that allows users to build, train and visualize neural networks in real-time with intuitive controls.",
			Category:    string(CategoryApp),
			Tag:         StringPtr("INTERACTIVE"),
			Thumbnail:   "https://images.unsplash.com/photo-1581291518857-4e27b48ff24e?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=450",
			URL:         "https://example.com/neural-visualizer",
			CreatedAt:   ago(7 * day),
			UpdatedAt:   agoPtr(2 * day),
		},
		{
			ID:          2,
			Title:       "Waveform Generator",
			Description: "Create unique audio visualizations from any sound input. Export as animated GIFs or videos with customizable colors and effects.",
			Category:    string(CategoryApp),
			Tag:         StringPtr("AUDIO"),
			Thumbnail:   "https://images.unsplash.com/photo-1558591710-4b4a1ae0f04d?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=450",
			URL:         "https://example.com/waveform-generator",
			CreatedAt:   ago(14 * day),
			UpdatedAt:   agoPtr(3 * day),
		},
		{
			ID:          3,
			Title:       "Code Synthesis",
			Description: "Advanced code editor with AI-powered completion, syntax visualization, and collaborative features for programmers.",
			Category:    string(CategoryApp),
			Tag:         StringPtr("PRODUCTIVITY"),
			Thumbnail:   "https://images.unsplash.com/photo-1629654297299-c8506221ca97?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=450",
			URL:         "https://example.com/code-synthesis",
			CreatedAt:   ago(21 * day),
		},
		{
			ID:          4,
			Title:       "Neon Drifter",
			Description: "Race through a cyberpunk cityscape on your hoverbike, avoiding obstacles and collecting energy cells to boost your speed.",
			Category:    string(CategoryGame),
			Tag:         StringPtr("ARCADE"),
			Thumbnail:   "https://images.unsplash.com/photo-1550745165-9bc0b252726f?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=450",
			URL:         "https://example.com/neon-drifter",
			CreatedAt:   ago(5 * day),
		},
		{
			ID:          5,
			Title:       "Circuit Logic",
			Description: "Connect circuits to solve increasingly complex energy flow puzzles. Features 50+ levels with unique mechanics and challenges.",
			Category:    string(CategoryGame),
			Tag:         StringPtr("PUZZLE"),
			Thumbnail:   "https://images.unsplash.com/photo-1605106702734-205df224ecce?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=450",
			URL:         "https://example.com/circuit-logic",
			CreatedAt:   ago(12 * day),
			UpdatedAt:   agoPtr(4 * day),
		},
		{
			ID:          6,
			Title:       "Neural Dreams",
			Description: "Generated using a custom GAN architecture trained on abstract digital art.",
			Category:    string(CategoryImage),
			Tag:         StringPtr("GENERATIVE"),
			Thumbnail:   "https://images.unsplash.com/photo-1550745165-9bc0b252726f?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=800",
			URL:         "https://example.com/neural-dreams",
			CreatedAt:   ago(2 * day),
		},
		{
			ID:          7,
			Title:       "Geometric Fractals",
			Description: "Recursive geometric patterns generated using custom WebGL shaders.",
			Category:    string(CategoryImage),
			Tag:         StringPtr("PROCEDURAL"),
			Thumbnail:   "https://images.unsplash.com/photo-1518770660439-4636190af475?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=800",
			URL:         "https://example.com/geometric-fractals",
			CreatedAt:   ago(11 * day),
		},
		{
			ID:          8,
			Title:       "Motion Study 03",
			Description: "Abstract visualization of data structures morphing and evolving through geometric transformations.",
			Category:    string(CategoryVideo),
			Tag:         StringPtr("ABSTRACT"),
			Thumbnail:   "https://images.unsplash.com/photo-1558507652-2d9626c4e67a?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=450",
			URL:         "https://example.com/motion-study-03",
			VideoLength: StringPtr("02:34"),
			CreatedAt:   ago(3 * day),
		},
		{
			ID:          9,
			Title:       "Digital Environment",
			Description: "Walkthrough of a generated architectural space that responds to sound input and user interaction.",
			Category:    string(CategoryVideo),
			Tag:         StringPtr("ENVIRONMENT"),
			Thumbnail:   "https://images.unsplash.com/photo-1535223289827-42f1e9919769?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=450",
			URL:         "https://example.com/digital-environment",
			VideoLength: StringPtr("04:17"),
			CreatedAt:   ago(8 * day),
		},
	}
}

// InputOf strips the server-assigned fields from p.
func InputOf(p *Project) Input {
	return Input{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Tag:         cloneString(p.Tag),
		Thumbnail:   p.Thumbnail,
		URL:         p.URL,
		VideoLength: cloneString(p.VideoLength),
	}
}
