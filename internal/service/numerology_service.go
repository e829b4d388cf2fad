package service

import (
	"context"
	"time"

	"horoscope-api/internal/model"
)

var lifePathMeanings = map[int]model.LifePathMeaning{
	1: {
		Title:       "The Leader",
		Traits:      []string{"Independent", "Ambitious", "Pioneering", "Confident"},
		Description: "You are a natural born leader with strong willpower. Independent and ambitious, you forge your own path and inspire others to follow.",
		Strengths:   []string{"Leadership", "Innovation", "Determination", "Originality"},
		Challenges:  []string{"Stubbornness", "Self-centeredness", "Impatience"},
		LifePurpose: "To develop individuality and lead others toward new beginnings.",
	},
	2: {
		Title:       "The Peacemaker",
		Traits:      []string{"Diplomatic", "Sensitive", "Cooperative", "Intuitive"},
		Description: "You are a natural mediator with deep intuition. Partnership and harmony are your gifts, bringing people together.",
		Strengths:   []string{"Diplomacy", "Intuition", "Patience", "Sensitivity"},
		Challenges:  []string{"Oversensitivity", "Indecisiveness", "Dependency"},
		LifePurpose: "To bring harmony and cooperation to relationships and groups.",
	},
	3: {
		Title:       "The Communicator",
		Traits:      []string{"Creative", "Expressive", "Optimistic", "Social"},
		Description: "You are gifted with creativity and self-expression. Joy and inspiration flow through you naturally.",
		Strengths:   []string{"Creativity", "Communication", "Optimism", "Artistic talent"},
		Challenges:  []string{"Scattered energy", "Superficiality", "Mood swings"},
		LifePurpose: "To inspire others through creative self-expression and joy.",
	},
	4: {
		Title:       "The Builder",
		Traits:      []string{"Practical", "Hardworking", "Stable", "Reliable"},
		Description: "You are the foundation builder of society. Order, stability, and hard work define your approach.",
		Strengths:   []string{"Organization", "Discipline", "Loyalty", "Practicality"},
		Challenges:  []string{"Rigidity", "Stubbornness", "Workaholic tendencies"},
		LifePurpose: "To create lasting structures and systems that benefit others.",
	},
	5: {
		Title:       "The Freedom Seeker",
		Traits:      []string{"Adventurous", "Versatile", "Dynamic", "Free-spirited"},
		Description: "You crave freedom and adventure. Change is your constant companion, bringing dynamic energy.",
		Strengths:   []string{"Adaptability", "Curiosity", "Resourcefulness", "Versatility"},
		Challenges:  []string{"Restlessness", "Inconsistency", "Excess"},
		LifePurpose: "To experience life fully and help others embrace positive change.",
	},
	6: {
		Title:       "The Nurturer",
		Traits:      []string{"Caring", "Responsible", "Protective", "Harmonious"},
		Description: "You are the cosmic parent. Love, family, and responsibility are central to your being.",
		Strengths:   []string{"Compassion", "Responsibility", "Healing", "Domestic harmony"},
		Challenges:  []string{"Self-sacrifice", "Perfectionism", "Over-protectiveness"},
		LifePurpose: "To nurture and heal others while creating harmony in home and community.",
	},
	7: {
		Title:       "The Seeker",
		Traits:      []string{"Analytical", "Spiritual", "Introspective", "Wise"},
		Description: "You are the truth seeker. Spirituality, knowledge, and inner wisdom guide your path.",
		Strengths:   []string{"Wisdom", "Intuition", "Analysis", "Spiritual depth"},
		Challenges:  []string{"Isolation", "Skepticism", "Aloofness"},
		LifePurpose: "To seek spiritual truth and share wisdom with others.",
	},
	8: {
		Title:       "The Powerhouse",
		Traits:      []string{"Ambitious", "Authoritative", "Successful", "Material"},
		Description: "You are meant for abundance. Power, success, and material achievement are your destiny.",
		Strengths:   []string{"Business acumen", "Authority", "Achievement", "Manifestation"},
		Challenges:  []string{"Materialism", "Workaholism", "Power struggles"},
		LifePurpose: "To achieve material success and use power responsibly for the greater good.",
	},
	9: {
		Title:       "The Humanitarian",
		Traits:      []string{"Compassionate", "Generous", "Idealistic", "Creative"},
		Description: "You are here to serve humanity. Universal love and compassion define your soul mission.",
		Strengths:   []string{"Compassion", "Wisdom", "Creativity", "Generosity"},
		Challenges:  []string{"Detachment", "Martyrdom", "Being too idealistic"},
		LifePurpose: "To serve humanity and bring healing on a global scale.",
	},
	11: {
		Title:       "The Intuitive",
		Traits:      []string{"Visionary", "Spiritual", "Inspiring", "Sensitive"},
		Description: "Master Number. You are a spiritual messenger with heightened intuition and psychic gifts.",
		Strengths:   []string{"Inspiration", "Spiritual insight", "Leadership", "Healing"},
		Challenges:  []string{"Anxiety", "Self-doubt", "Nervous energy"},
		LifePurpose: "To inspire and illuminate others through spiritual vision.",
	},
	22: {
		Title:       "The Master Builder",
		Traits:      []string{"Visionary", "Practical", "Ambitious", "Powerful"},
		Description: "Master Number. You can turn the grandest spiritual visions into practical reality.",
		Strengths:   []string{"Vision", "Practicality", "Leadership", "Global impact"},
		Challenges:  []string{"Overwhelm", "Self-pressure", "Unrealistic expectations"},
		LifePurpose: "To build structures and systems that benefit humanity on a large scale.",
	},
	33: {
		Title:       "The Master Teacher",
		Traits:      []string{"Nurturing", "Spiritual", "Healing", "Selfless"},
		Description: "Master Number. You are a beacon of light and unconditional love for humanity.",
		Strengths:   []string{"Healing", "Teaching", "Compassion", "Unconditional love"},
		Challenges:  []string{"Burnout", "Over-giving", "Martyrdom"},
		LifePurpose: "To teach, heal, and uplift humanity through unconditional love.",
	},
}

var personalDayMeanings = map[int]model.PersonalDayMeaning{
	1: {
		Title:       "Day of New Beginnings",
		Energy:      "Initiating",
		Guidance:    "Today's energy favors starting new projects and taking initiative. Trust your instincts and lead with confidence. Your personal power is strong - use it to make bold moves.",
		Affirmation: "I am a powerful creator of my reality.",
		Focus:       []string{"Start new projects", "Take initiative", "Be independent", "Assert yourself"},
		Avoid:       []string{"Following the crowd", "Procrastination", "Self-doubt"},
	},
	2: {
		Title:       "Day of Cooperation",
		Energy:      "Harmonizing",
		Guidance:    "Today calls for patience and diplomacy. Partnership energies are strong. Listen more than you speak, and seek balance in all interactions.",
		Affirmation: "I create harmony in my relationships.",
		Focus:       []string{"Collaborative work", "Listening", "Patience", "Relationships"},
		Avoid:       []string{"Being pushy", "Impatience", "Forcing issues"},
	},
	3: {
		Title:       "Day of Expression",
		Energy:      "Creative",
		Guidance:    "Your creativity and communication are supercharged today. Express yourself through art, writing, or conversation. Joy and social connections are favored.",
		Affirmation: "My creative expression flows freely.",
		Focus:       []string{"Creative projects", "Social activities", "Self-expression", "Joy"},
		Avoid:       []string{"Negative self-talk", "Isolation", "Criticism"},
	},
	4: {
		Title:       "Day of Building",
		Energy:      "Grounding",
		Guidance:    "Focus on practical matters, organization, and building solid foundations. Hard work pays off today. Create structure and attend to details.",
		Affirmation: "I build lasting foundations for my dreams.",
		Focus:       []string{"Organization", "Practical tasks", "Planning", "Hard work"},
		Avoid:       []string{"Cutting corners", "Disorganization", "Rigidity"},
	},
	5: {
		Title:       "Day of Change",
		Energy:      "Dynamic",
		Guidance:    "Embrace change and variety today. Adventure calls! Be flexible and open to unexpected opportunities. Break free from routine.",
		Affirmation: "I embrace change with excitement and grace.",
		Focus:       []string{"New experiences", "Flexibility", "Adventure", "Freedom"},
		Avoid:       []string{"Resistance to change", "Excess", "Scattered energy"},
	},
	6: {
		Title:       "Day of Nurturing",
		Energy:      "Loving",
		Guidance:    "Home and family take priority today. Nurture yourself and loved ones. Beauty and harmony are especially important. Give and receive love freely.",
		Affirmation: "I nurture myself and others with love.",
		Focus:       []string{"Family", "Home improvements", "Self-care", "Helping others"},
		Avoid:       []string{"Neglecting yourself", "Perfectionism", "Martyrdom"},
	},
	7: {
		Title:       "Day of Reflection",
		Energy:      "Introspective",
		Guidance:    "Take time for meditation and inner reflection. Seek knowledge and spiritual connection. Trust your intuition - answers come from within today.",
		Affirmation: "I trust my inner wisdom.",
		Focus:       []string{"Meditation", "Study", "Solitude", "Spiritual practices"},
		Avoid:       []string{"Overthinking", "Isolation extremes", "Skepticism"},
	},
	8: {
		Title:       "Day of Manifestation",
		Energy:      "Abundant",
		Guidance:    "Financial and material matters are favored. Take action on business goals. Your power to manifest is strong - think big and act decisively.",
		Affirmation: "Abundance flows to me naturally.",
		Focus:       []string{"Business matters", "Financial decisions", "Goal achievement", "Leadership"},
		Avoid:       []string{"Greed", "Ignoring ethics", "Workaholism"},
	},
	9: {
		Title:       "Day of Completion",
		Energy:      "Humanitarian",
		Guidance:    "Focus on completing projects and releasing what no longer serves you. Compassion and service to others bring fulfillment. Let go with love.",
		Affirmation: "I release the old to welcome the new.",
		Focus:       []string{"Completion", "Letting go", "Helping others", "Forgiveness"},
		Avoid:       []string{"Starting new projects", "Holding grudges", "Selfishness"},
	},
}

// NumerologyService derives a daily reading from the user's birth date
// and the current date in their timezone.
type NumerologyService struct {
	users UserStore
}

func NewNumerologyService(users UserStore) *NumerologyService {
	return &NumerologyService{users: users}
}

func (s *NumerologyService) Daily(ctx context.Context, userID string) (model.NumerologyReading, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.NumerologyReading{}, err
	}

	loc, err := time.LoadLocation(user.Timezone)
	if err != nil {
		loc = time.UTC
	}
	today := time.Now().In(loc)

	return buildNumerologyReading(user.BirthDate, today), nil
}

func buildNumerologyReading(birthDate time.Time, today time.Time) model.NumerologyReading {
	lifePath := reduceNumber(birthDate.Year() + int(birthDate.Month()) + birthDate.Day())
	personalYear := reduceNumber(today.Year() + int(birthDate.Month()) + birthDate.Day())
	personalMonth := reduceNumber(personalYear + int(today.Month()))
	personalDay := reduceNumber(personalMonth + today.Day())

	lifePathMeaning, ok := lifePathMeanings[lifePath]
	if !ok {
		lifePathMeaning = lifePathMeanings[1]
	}
	personalDayMeaning, ok := personalDayMeanings[personalDay]
	if !ok {
		personalDayMeaning = personalDayMeanings[1]
	}

	return model.NumerologyReading{
		LifePathNumber:     lifePath,
		LifePathMeaning:    lifePathMeaning,
		PersonalYear:       personalYear,
		PersonalMonth:      personalMonth,
		PersonalDay:        personalDay,
		PersonalDayMeaning: personalDayMeaning,
		DestinyNumber:      reduceNumber(birthDate.Day()),
		SoulNumber:         reduceNumber(int(birthDate.Month())),
		PersonalityNumber:  reduceNumber(birthDate.Year()),
	}
}

// reduceNumber sums digits down to a single digit, preserving the
// master numbers 11, 22 and 33.
func reduceNumber(n int) int {
	for n > 9 && n != 11 && n != 22 && n != 33 {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}
