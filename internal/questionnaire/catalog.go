package questionnaire

import (
	"github.com/communix/communix-api/internal/models"
)

const followUpText = "What are your specific interests in this area?"

var studentCatalog = []Question{
	{
		Text: "What Are Your Primary Areas of Academic Interest?",
		Options: []string{
			"Artificial Intelligence and Data Science",
			"Finance and Investments",
			"Startup and Entrepreneurship",
			"Marketing and Branding",
			"Human Resources and Talent Management",
			"Technology and Engineering",
			"Consulting and Advisory",
			"Healthcare and Life Sciences",
		},
	},
	{
		Text: "What Are Your Passions Outside of Academics?",
		Options: []string{
			"Sports and Physical Activities",
			"Entertainment and Media",
			"Creative Arts",
			"Technology and Innovation",
			"Intellectual Pursuits",
			"Community and Social Engagement",
			"Outdoor and Adventure",
			"Culinary Arts",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Sports and Physical Activities"},
		Options: []string{
			"Cricket", "Football", "Badminton", "Table Tennis",
			"Basketball", "Volleyball", "Kabaddi", "Athletics",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Entertainment and Media"},
		Options: []string{
			"Watching Bollywood Movies",
			"Listening to Bollywood Music",
			"Streaming Regional Films",
			"Following Indian Television Shows",
			"Participating in Dance Forms like Bollywood Dance",
			"Engaging in Online Gaming",
			"Watching Web Series",
			"Following Celebrity News",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Creative Arts"},
		Options: []string{
			"Painting or Drawing",
			"Photography",
			"Writing (Creative Writing, Blogging)",
			"Playing a Musical Instrument",
			"Singing",
			"Acting or Drama",
			"Dancing",
			"Graphic Design",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Technology and Innovation"},
		Options: []string{
			"Coding and Programming",
			"App Development",
			"Robotics",
			"Web Design",
			"Game Development",
			"Digital Art",
			"Blogging or Vlogging",
			"Podcasting",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Intellectual Pursuits"},
		Options: []string{
			"Reading (Fiction or Non-fiction)",
			"Learning a New Language",
			"Chess",
			"Puzzles and Brain Teasers",
			"Research Projects",
			"Public Speaking",
			"Debating",
			"Quizzing",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Community and Social Engagement"},
		Options: []string{
			"Volunteering",
			"Social Activism",
			"Mentorship Programs",
			"Cultural Clubs",
			"Environmental Initiatives",
			"Event Planning",
			"Fundraising",
			"Peer Counseling",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Outdoor and Adventure"},
		Options: []string{
			"Traveling", "Trekking", "Camping", "Cycling",
			"Gardening", "Bird Watching", "Stargazing", "Fishing",
		},
	},
	{
		Text:      followUpText,
		Condition: &Condition{Question: 1, Answer: "Culinary Arts"},
		Options: []string{
			"Cooking",
			"Baking",
			"Brewing (Coffee, Tea, Beer)",
			"Food Photography",
			"Wine Tasting",
			"Gardening (Herbs and Vegetables)",
			"Food Blogging",
			"Culinary Competitions",
		},
	},
}

var professionalCatalog = []Question{
	{
		Text: "What Are Your Key Professional Aspirations?",
		Options: []string{
			"Artificial Intelligence and Data Science",
			"Finance and Investments",
			"Startup and Entrepreneurship",
			"Marketing and Branding",
			"Human Resources and Talent Management",
			"Technology and Engineering",
			"Consulting and Advisory",
			"Healthcare and Life Sciences",
		},
	},
	{
		Text: "What Are Your Passions Outside of Work?",
		Options: []string{
			"Watching Movies",
			"Playing Musical Instruments",
			"Composing or Songwriting",
			"Participating in Team Sports",
			"Fitness Training",
			"Outdoor Adventures",
			"Reading Fiction",
			"Traveling and Exploring New Places",
		},
	},
	{
		Text: "Which of the following best describes your current stage in your career?",
		Options: []string{
			"Early Career (0-3 years of experience)",
			"Mid Career (4-10 years of experience)",
			"Senior Leadership (10+ years of experience)",
			"Entrepreneur/Founder",
			"Freelancer/Consultant",
			"Seeking Career Change",
			"Other",
		},
	},
}

// Catalog returns the full onboarding question sequence for a profession,
// including questions whose display condition may evaluate false.
func Catalog(profession string) ([]Question, error) {
	switch profession {
	case models.ProfessionStudent:
		return studentCatalog, nil
	case models.ProfessionProfessional:
		return professionalCatalog, nil
	default:
		return nil, ErrUnknownProfession
	}
}
