package generate

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sparkdraft/internal/domain"
)

// Request carries the inputs for one content generation call.
type Request struct {
	Topic        string
	Format       domain.ProjectFormat
	VoiceProfile domain.VoiceProfile
}

// Generator produces outlines, titles and promos for a topic. The returned
// content always has all three sections populated; anything less is an error.
type Generator interface {
	Generate(ctx context.Context, req Request) (*domain.GeneratedContent, error)
}

// StaticGenerator is a deterministic offline generator used in development
// and in tests. It never fails and never calls out.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Generate(ctx context.Context, req Request) (*domain.GeneratedContent, error) {
	c := cases.Title(language.Und)
	topic := req.Topic
	if topic == "" {
		topic = "your topic"
	}
	headline := c.String(topic)

	content := &domain.GeneratedContent{
		Outlines: []domain.Outline{
			{
				Title:     fmt.Sprintf("%s: A Complete Guide", headline),
				WordCount: 1200,
				Sections:  []string{"Introduction", "Key ideas", "Practical steps", "Conclusion"},
			},
			{
				Title:     fmt.Sprintf("Why %s Matters Now", headline),
				WordCount: 800,
				Sections:  []string{"The hook", "Three arguments", "Call to action"},
			},
			{
				Title:     fmt.Sprintf("%s for Beginners", headline),
				WordCount: 1000,
				Sections:  []string{"What it is", "Common mistakes", "Where to start"},
			},
		},
		Titles: []string{
			fmt.Sprintf("%s: Everything You Need to Know", headline),
			fmt.Sprintf("The Honest Truth About %s", headline),
			fmt.Sprintf("%s in %s Form", headline, string(req.Format)),
			fmt.Sprintf("How We Think About %s", headline),
			fmt.Sprintf("%s, Explained Simply", headline),
			fmt.Sprintf("5 Lessons From %s", headline),
			fmt.Sprintf("Stop Ignoring %s", headline),
			fmt.Sprintf("%s: First Principles", headline),
			fmt.Sprintf("A %s Take on %s", string(req.VoiceProfile), headline),
			fmt.Sprintf("%s Without the Hype", headline),
		},
		Promos: []domain.Promo{
			{Platform: "Twitter", Content: fmt.Sprintf("New %s on %s is live. Worth two minutes of your day.", req.Format, topic)},
			{Platform: "LinkedIn", Content: fmt.Sprintf("We just published a %s about %s. Here is what we learned.", req.Format, topic)},
			{Platform: "Instagram", Content: fmt.Sprintf("Everything about %s, in one place. Link in bio.", topic)},
			{Platform: "Facebook", Content: fmt.Sprintf("Our latest %s covers %s from start to finish.", req.Format, topic)},
			{Platform: "Threads", Content: fmt.Sprintf("Hot take on %s inside. Come argue with us.", topic)},
		},
	}
	return content, nil
}

var _ Generator = (*StaticGenerator)(nil)
