package registry

import "github.com/mailsift/mailsift/internal/model"

// DefaultCategories returns the built-in category set. Ids and their order
// are a compatibility contract with persisted settings; keyword lists are
// bilingual French/English.
func DefaultCategories() []model.Category {
	return []model.Category{
		{
			ID:       "tasks",
			Name:     "Tasks",
			Icon:     "✅",
			Color:    "#4ECDC4",
			Priority: 95,
			Keywords: model.Keywords{
				Absolute: []string{
					"action requise", "action required",
					"veuillez confirmer", "please confirm",
					"réponse attendue", "response required",
				},
				Strong: []string{
					"confirmer votre commande", "confirm your order",
					"échéance", "deadline",
					"à compléter", "to complete",
					"urgent",
				},
				Weak: []string{
					"merci de", "demande", "request", "valider",
				},
			},
		},
		{
			ID:       "security",
			Name:     "Security",
			Icon:     "🔒",
			Color:    "#FF6B6B",
			Priority: 90,
			Keywords: model.Keywords{
				Absolute: []string{
					"code de vérification", "verification code",
					"réinitialiser votre mot de passe", "password reset",
					"double authentification", "two-factor",
				},
				Strong: []string{
					"connexion suspecte", "suspicious login",
					"alerte de sécurité", "security alert",
					"sécurité de votre compte", "account security",
					"mot de passe",
				},
				Weak: []string{
					"vérification", "verification", "authentification",
				},
			},
		},
		{
			ID:       "finance",
			Name:     "Finance",
			Icon:     "💶",
			Color:    "#FFE66D",
			Priority: 85,
			Keywords: model.Keywords{
				Absolute: []string{
					"facture", "invoice",
					"relevé bancaire", "bank statement",
					"virement reçu", "wire transfer",
				},
				Strong: []string{
					"paiement", "payment due",
					"montant dû", "amount due",
					"remboursement", "refund",
					"iban",
				},
				Weak: []string{
					"montant", "amount", "tva", "vat", "banque", "bank",
				},
			},
		},
		{
			ID:       "meetings",
			Name:     "Meetings",
			Icon:     "📅",
			Color:    "#95E1D3",
			Priority: 80,
			Keywords: model.Keywords{
				Absolute: []string{
					"réunion", "meeting",
					"visioconférence", "video call",
				},
				Strong: []string{
					"rendez-vous", "appointment",
					"salle de conférence", "conference room",
					"invitation", "calendrier", "calendar",
				},
				Weak: []string{
					"demain", "tomorrow", "agenda", "horaire", "schedule",
				},
			},
		},
		{
			ID:       "commercial",
			Name:     "Commercial",
			Icon:     "🤝",
			Color:    "#A8E6CF",
			Priority: 60,
			Keywords: model.Keywords{
				Absolute: []string{
					"devis", "quotation",
					"bon de commande", "purchase order",
				},
				Strong: []string{
					"offre commerciale", "commercial offer",
					"proposition commerciale", "proposal",
					"tarifs", "pricing",
				},
				Weak: []string{
					"client", "customer", "vente", "sale", "contrat", "contract",
				},
			},
		},
		{
			ID:       "marketing_news",
			Name:     "Marketing & News",
			Icon:     "📣",
			Color:    "#FFD3B6",
			Priority: 50,
			Keywords: model.Keywords{
				Absolute: []string{
					"newsletter",
					"désabonnez-vous", "se désabonner", "unsubscribe",
				},
				Strong: []string{
					"hebdomadaire", "weekly digest",
					"promotion", "soldes", "vente flash", "flash sale",
				},
				Weak: []string{
					"découvrez", "discover", "nouveauté", "offre", "deal",
				},
			},
		},
		{
			ID:       "notifications",
			Name:     "Notifications",
			Icon:     "🔔",
			Color:    "#DCEDC1",
			Priority: 40,
			Keywords: model.Keywords{
				Absolute: []string{
					"notification automatique", "automated notification",
					"ne pas répondre", "do not reply", "noreply",
				},
				Strong: []string{
					"votre commande a été expédiée", "your order has shipped",
					"statut de votre", "status update",
					"confirmation d'expédition",
				},
				Weak: []string{
					"automatique", "automated", "mise à jour", "update",
				},
			},
		},
		{
			ID:       "personal",
			Name:     "Personal",
			Icon:     "💬",
			Color:    "#D4A5A5",
			Priority: 30,
			Keywords: model.Keywords{
				Absolute: []string{
					"anniversaire", "birthday",
				},
				Strong: []string{
					"famille", "family",
					"vacances", "photos",
				},
				Weak: []string{
					"salut", "coucou", "bisous", "cheers",
				},
			},
		},
	}
}
