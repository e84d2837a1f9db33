package couple

import "math/rand"

var quotes = []string{
	"\"Love is not about how many days, months, or years you have been together. Love is about how much you love each other every single day.\" - Unknown",
	"\"Being deeply loved by someone gives you strength, while loving someone deeply gives you courage.\" - Lao Tzu",
	"\"The best thing to hold onto in life is each other.\" - Audrey Hepburn",
	"\"You know you're in love when you can't fall asleep because reality is finally better than your dreams.\" - Dr. Seuss",
	"\"Love is composed of a single soul inhabiting two bodies.\" - Aristotle",
	"\"In all the world, there is no heart for me like yours. In all the world, there is no love for you like mine.\" - Maya Angelou",
	"\"Love doesn't make the world go 'round. Love is what makes the ride worthwhile.\" - Franklin P. Jones",
	"\"True love stories never have endings.\" - Richard Bach",
	"\"The greatest happiness of life is the conviction that we are loved; loved for ourselves, or rather, loved in spite of ourselves.\" - Victor Hugo",
	"\"Love is when the other person's happiness is more important than your own.\" - H. Jackson Brown Jr.",
	"\"Two souls with but a single thought, two hearts that beat as one.\" - John Keats",
	"\"Love recognizes no barriers. It jumps hurdles, leaps fences, penetrates walls to arrive at its destination full of hope.\" - Maya Angelou",
	"\"The best love is the kind that awakens the soul and makes us reach for more.\" - Nicholas Sparks",
	"\"Love is friendship that has caught fire.\" - Ann Landers",
	"\"Where there is love there is life.\" - Mahatma Gandhi",
}

var questions = []string{
	"What's your partner's favorite color?",
	"Where was your first date?",
	"What's your partner's biggest fear?",
	"What's your partner's dream vacation destination?",
	"What's your partner's favorite movie?",
	"What makes your partner laugh the most?",
	"What's your partner's hidden talent?",
	"What's your partner's favorite food?",
	"What's your partner's biggest goal in life?",
	"What's your partner's favorite memory of you two together?",
	"What's something your partner is really proud of?",
	"What's your partner's love language?",
	"What's your partner's favorite way to spend a weekend?",
	"What's something that always cheers up your partner?",
	"What's your partner's biggest pet peeve?",
}

var dateIdeas = []string{
	"🍿 Movie marathon with your favorite snacks",
	"🍳 Cook a fancy dinner together",
	"🌟 Stargazing with hot chocolate",
	"🎮 Play co-op video games",
	"📚 Read the same book together",
	"🎨 Paint or draw portraits of each other",
	"🧩 Work on a puzzle together",
	"🎵 Create a playlist of 'your songs'",
	"📸 Take a photo walk around your neighborhood",
	"🧘 Try couples yoga or meditation",
	"🍰 Bake something delicious together",
	"🎭 Have a themed costume night",
	"💌 Write love letters to read in the future",
	"🏠 Redesign a room together",
	"🎪 Have an indoor picnic",
	"🎯 Try a new hobby together",
	"🌅 Watch the sunrise or sunset",
	"🎲 Play board games with silly stakes",
	"🍕 Order from a restaurant you've never tried",
	"💃 Have a dance party in your living room",
}

// RandomQuote picks one love quote.
func RandomQuote() string {
	return quotes[rand.Intn(len(quotes))]
}

// RandomQuestion picks one couple-game question.
func RandomQuestion() string {
	return questions[rand.Intn(len(questions))]
}

// DateIdeas samples n distinct date-night ideas.
func DateIdeas(n int) []string {
	if n > len(dateIdeas) {
		n = len(dateIdeas)
	}
	picks := make([]string, 0, n)
	for _, i := range rand.Perm(len(dateIdeas))[:n] {
		picks = append(picks, dateIdeas[i])
	}
	return picks
}
