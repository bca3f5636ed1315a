package course

import (
	"time"

	"github.com/volatiletech/null/v8"
)

func seedDate(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 0, 0, 0, 0, time.UTC)
}

func thumbnail(color, text string) null.String {
	return null.StringFrom("https://via.placeholder.com/400x200/" + color + "/FFFFFF?text=" + text)
}

// SeedCourses returns the demonstration courses.
func SeedCourses() []Course {
	return []Course{
		{
			ID:          1,
			Title:       "Initiation à Angular",
			Description: "Découverte du framework Angular et de ses composants. Apprenez les bases de ce framework puissant pour créer des applications web modernes.",
			Level:       LevelBeginner,
			Category:    "Programmation",
			Duration:    "4h",
			Thumbnail:   thumbnail("FF0000", "Angular"),
			CreatedAt:   seedDate(time.January, 15),
			UpdatedAt:   seedDate(time.January, 15),
			Lessons: []Lesson{
				{ID: 101, Title: "Introduction à Angular", Content: "Dans cette leçon, vous allez découvrir ce qu'est Angular, son histoire et pourquoi l'utiliser.", Duration: "30min", Order: 1},
				{ID: 102, Title: "Composants et Templates", Content: "Apprenez à créer vos premiers composants et à utiliser les templates Angular.", Duration: "45min", Order: 2},
				{ID: 103, Title: "Data Binding", Content: "Maîtrisez les différents types de binding: interpolation, property binding, event binding.", Duration: "40min", Order: 3},
				{ID: 104, Title: "Directives", Content: "Découvrez les directives structurelles et attributaires d'Angular.", Duration: "35min", Order: 4},
				{ID: 105, Title: "Services et Dependency Injection", Content: "Comprenez le système d'injection de dépendances et créez vos premiers services.", Duration: "50min", Order: 5},
			},
			Quizzes: []Quiz{
				{
					ID:       1001,
					Question: "Qu'est-ce qu'un composant Angular ?",
					Options: []string{
						"Une fonction JavaScript",
						"Une classe TypeScript avec un décorateur @Component",
						"Un fichier HTML",
						"Un service",
					},
					CorrectAnswer: 1,
				},
				{
					ID:            1002,
					Question:      "Quelle directive permet de boucler sur un tableau ?",
					Options:       []string{"*ngIf", "*ngSwitch", "*ngFor", "*ngModel"},
					CorrectAnswer: 2,
				},
			},
		},
		{
			ID:          2,
			Title:       "TypeScript Avancé",
			Description: "Maîtrisez TypeScript avec les concepts avancés: generics, decorators, types utilitaires et plus encore.",
			Level:       LevelAdvanced,
			Category:    "Programmation",
			Duration:    "6h",
			Thumbnail:   thumbnail("3178C6", "TypeScript"),
			CreatedAt:   seedDate(time.January, 20),
			UpdatedAt:   seedDate(time.January, 20),
			Lessons: []Lesson{
				{ID: 201, Title: "Generics", Content: "Découvrez la puissance des types génériques en TypeScript.", Duration: "60min", Order: 1},
				{ID: 202, Title: "Decorators", Content: "Apprenez à créer et utiliser des décorateurs personnalisés.", Duration: "70min", Order: 2},
				{ID: 203, Title: "Types Utilitaires", Content: "Maîtrisez Partial, Pick, Omit, Record et autres types utilitaires.", Duration: "50min", Order: 3},
				{ID: 204, Title: "Advanced Patterns", Content: "Design patterns et bonnes pratiques avec TypeScript.", Duration: "80min", Order: 4},
			},
			Quizzes: []Quiz{
				{
					ID:       2001,
					Question: "Que permet de faire un type générique ?",
					Options: []string{
						"Créer des types réutilisables",
						"Supprimer du code",
						"Accélérer l'application",
						"Rien de spécial",
					},
					CorrectAnswer: 0,
				},
			},
		},
		{
			ID:          3,
			Title:       "Design UI/UX avec Figma",
			Description: "Créez des interfaces modernes et attractives avec Figma. De la maquette au prototype interactif.",
			Level:       LevelIntermediate,
			Category:    "Design",
			Duration:    "5h",
			Thumbnail:   thumbnail("F24E1E", "Figma"),
			CreatedAt:   seedDate(time.January, 10),
			UpdatedAt:   seedDate(time.January, 10),
			Lessons: []Lesson{
				{ID: 301, Title: "Interface de Figma", Content: "Familiarisez-vous avec l'interface et les outils de base.", Duration: "40min", Order: 1},
				{ID: 302, Title: "Composants et Variants", Content: "Créez des composants réutilisables et leurs variantes.", Duration: "60min", Order: 2},
				{ID: 303, Title: "Auto Layout", Content: "Maîtrisez l'Auto Layout pour des designs responsives.", Duration: "55min", Order: 3},
				{ID: 304, Title: "Prototypage", Content: "Créez des prototypes interactifs avec des transitions.", Duration: "65min", Order: 4},
				{ID: 305, Title: "Design System", Content: "Construisez un design system complet et cohérent.", Duration: "80min", Order: 5},
			},
			Quizzes: []Quiz{
				{
					ID:       3001,
					Question: "À quoi sert l'Auto Layout dans Figma ?",
					Options: []string{
						"À créer des animations",
						"À rendre les designs responsives",
						"À exporter des images",
						"À partager des fichiers",
					},
					CorrectAnswer: 1,
				},
			},
		},
		{
			ID:          4,
			Title:       "Anglais des Affaires",
			Description: "Améliorez votre anglais professionnel: emails, réunions, présentations et négociations.",
			Level:       LevelIntermediate,
			Category:    "Langues",
			Duration:    "8h",
			Thumbnail:   thumbnail("0052B4", "English"),
			CreatedAt:   seedDate(time.January, 5),
			UpdatedAt:   seedDate(time.January, 5),
			Lessons: []Lesson{
				{ID: 401, Title: "Email Professionnel", Content: "Rédigez des emails professionnels clairs et efficaces.", Duration: "60min", Order: 1},
				{ID: 402, Title: "Réunions en Anglais", Content: "Participez activement aux réunions en anglais.", Duration: "70min", Order: 2},
				{ID: 403, Title: "Présentations", Content: "Structurez et livrez des présentations impactantes.", Duration: "80min", Order: 3},
				{ID: 404, Title: "Négociation", Content: "Techniques de négociation en anglais des affaires.", Duration: "90min", Order: 4},
			},
			Quizzes: []Quiz{
				{
					ID:            4001,
					Question:      "Comment commencer un email professionnel formel ?",
					Options:       []string{"Hey!", "Dear Sir/Madam,", "Yo,", "Salut,"},
					CorrectAnswer: 1,
				},
			},
		},
		{
			ID:          5,
			Title:       "Tailwind CSS",
			Description: "Maîtrisez le framework CSS utility-first pour créer des interfaces modernes rapidement.",
			Level:       LevelBeginner,
			Category:    "Programmation",
			Duration:    "3h",
			Thumbnail:   thumbnail("38B2AC", "Tailwind"),
			CreatedAt:   seedDate(time.January, 12),
			UpdatedAt:   seedDate(time.January, 12),
			Lessons: []Lesson{
				{ID: 501, Title: "Introduction à Tailwind", Content: "Découvrez la philosophie utility-first de Tailwind CSS.", Duration: "30min", Order: 1},
				{ID: 502, Title: "Classes Utilitaires", Content: "Explorez les classes utilitaires pour le layout, spacing, colors.", Duration: "50min", Order: 2},
				{ID: 503, Title: "Responsive Design", Content: "Créez des designs responsives avec les breakpoints Tailwind.", Duration: "40min", Order: 3},
				{ID: 504, Title: "Personnalisation", Content: "Customisez Tailwind avec votre propre configuration.", Duration: "40min", Order: 4},
			},
			Quizzes: []Quiz{
				{
					ID:       5001,
					Question: `Que signifie "utility-first" ?`,
					Options: []string{
						"Utiliser JavaScript en premier",
						"Utiliser des classes CSS atomiques",
						"Utiliser Bootstrap",
						"Utiliser des frameworks backend",
					},
					CorrectAnswer: 1,
				},
			},
		},
		{
			ID:          6,
			Title:       "Marketing Digital",
			Description: "Stratégies complètes de marketing digital: SEO, réseaux sociaux, email marketing et analytics.",
			Level:       LevelIntermediate,
			Category:    "Marketing",
			Duration:    "7h",
			Thumbnail:   thumbnail("FF6B6B", "Marketing"),
			CreatedAt:   seedDate(time.January, 8),
			UpdatedAt:   seedDate(time.January, 8),
			Lessons: []Lesson{
				{ID: 601, Title: "Fondamentaux du Marketing Digital", Content: "Les bases du marketing en ligne et les différents canaux.", Duration: "60min", Order: 1},
				{ID: 602, Title: "SEO et SEA", Content: "Optimisation pour les moteurs de recherche et publicité.", Duration: "80min", Order: 2},
				{ID: 603, Title: "Social Media Marketing", Content: "Stratégies pour Facebook, Instagram, LinkedIn et Twitter.", Duration: "70min", Order: 3},
				{ID: 604, Title: "Email Marketing", Content: "Créez des campagnes email performantes.", Duration: "60min", Order: 4},
				{ID: 605, Title: "Analytics et Mesure", Content: "Mesurez et analysez vos performances marketing.", Duration: "70min", Order: 5},
			},
			Quizzes: []Quiz{
				{
					ID:       6001,
					Question: "Que signifie SEO ?",
					Options: []string{
						"Social Engine Optimization",
						"Search Engine Optimization",
						"Simple Email Operation",
						"Secure Email Online",
					},
					CorrectAnswer: 1,
				},
			},
		},
	}
}
