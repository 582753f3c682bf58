package catalog

import "github.com/IT-Nick/compliance-bot/internal/domain/model"

// defaultQuizzes базовый каталог обучения по информационной безопасности
var defaultQuizzes = []model.Quiz{
	{
		ID:   "password_security",
		Name: "Password & Account Security",
		Questions: []model.Question{
			{
				ID:       1,
				Category: "Password & Account Security",
				Question: "What is the primary purpose of Multi-Factor Authentication (MFA)?",
				Options: []string{
					"To make passwords longer",
					"To add an extra layer of security beyond just a password",
					"To share your account with a colleague safely",
					"To automatically change your password every month",
				},
				CorrectAnswer: "To add an extra layer of security beyond just a password",
			},
			{
				ID:       2,
				Category: "Password & Account Security",
				Question: "Which of these is the strongest password?",
				Options: []string{
					"Password123!",
					"MyDogFido2024",
					"R#8k&Zp@w!q2v$J9",
					"qwertyuiop",
				},
				CorrectAnswer: "R#8k&Zp@w!q2v$J9",
			},
		},
	},
	{
		ID:   "data_protection_handling",
		Name: "Data Protection & Handling",
		Questions: []model.Question{
			{
				ID:       3,
				Category: "Data Protection & Handling",
				Question: "Where should you store confidential company files?",
				Options: []string{
					"On your personal Google Drive",
					"In your email drafts folder",
					"In company-approved cloud storage or network drives",
					"On a USB stick you keep on your desk",
				},
				CorrectAnswer: "In company-approved cloud storage or network drives",
			},
			{
				ID:       4,
				Category: "Data Protection & Handling",
				Question: "What does 'data classification' help you do?",
				Options: []string{
					"Delete old files automatically",
					"Understand the sensitivity of data and how to handle it",
					"Share files more quickly with anyone",
					"Encrypt your entire hard drive",
				},
				CorrectAnswer: "Understand the sensitivity of data and how to handle it",
			},
		},
	},
	{
		ID:   "email_communication_security",
		Name: "Email & Communication Security",
		Questions: []model.Question{
			{
				ID:       5,
				Category: "Email & Communication Security",
				Question: "You receive an unexpected email with a link to reset your password. What should you do?",
				Options: []string{
					"Click the link and reset your password immediately",
					"Forward the email to the IT department, then delete it",
					"Ignore and delete the email without clicking the link",
					"Reply to ask if the sender is legitimate",
				},
				CorrectAnswer: "Ignore and delete the email without clicking the link",
			},
		},
	},
	{
		ID:   "device_internet_usage",
		Name: "Device & Internet Usage",
		Questions: []model.Question{
			{
				ID:       6,
				Category: "Device & Internet Usage",
				Question: "Why is it risky to use public Wi-Fi without a VPN for work?",
				Options: []string{
					"It can be slow and unreliable",
					"Attackers on the same network can intercept your data",
					"It uses up your mobile data plan",
					"It is always safe if the Wi-Fi has a password",
				},
				CorrectAnswer: "Attackers on the same network can intercept your data",
			},
		},
	},
	{
		ID:   "physical_security",
		Name: "Physical Security",
		Questions: []model.Question{
			{
				ID:       7,
				Category: "Physical Security",
				Question: "What does a 'clean desk policy' primarily help prevent?",
				Options: []string{
					"Making the office look messy",
					"Losing your coffee mug",
					"Unauthorized access to sensitive information left on a desk",
					"Forgetting your tasks for the day",
				},
				CorrectAnswer: "Unauthorized access to sensitive information left on a desk",
			},
		},
	},
	{
		ID:   "incident_reporting",
		Name: "Incident Reporting",
		Questions: []model.Question{
			{
				ID:       8,
				Category: "Incident Reporting",
				Question: "You accidentally click on a suspicious link in an email. What should be your immediate next step?",
				Options: []string{
					"Disconnect your computer from the network and report it to IT immediately",
					"Run a virus scan and hope for the best",
					"Delete the email and don't tell anyone",
					"Restart your computer",
				},
				CorrectAnswer: "Disconnect your computer from the network and report it to IT immediately",
			},
		},
	},
	{
		ID:   "social_engineering_awareness",
		Name: "Social Engineering Awareness",
		Questions: []model.Question{
			{
				ID:       9,
				Category: "Social Engineering Awareness",
				Question: "An individual calls you claiming to be from IT support and asks for your password to fix an issue. How should you respond?",
				Options: []string{
					"Provide your password, as they are from IT",
					"Ask them for their name and employee ID first",
					"Refuse the request and report the call to the official IT department using a known number",
					"Give them a temporary password",
				},
				CorrectAnswer: "Refuse the request and report the call to the official IT department using a known number",
			},
		},
	},
	{
		ID:   "acceptable_use_compliance",
		Name: "Acceptable Use & Compliance",
		Questions: []model.Question{
			{
				ID:       10,
				Category: "Acceptable Use & Compliance",
				Question: "Is it acceptable to use your company email for personal activities like online shopping?",
				Options: []string{
					"Yes, as long as it's not excessive",
					"Only for emergencies",
					"No, company resources should be used for business purposes only",
					"Yes, it is more secure than a personal email",
				},
				CorrectAnswer: "No, company resources should be used for business purposes only",
			},
		},
	},
	{
		ID:   "remote_work_byod",
		Name: "Remote Work & BYOD",
		Questions: []model.Question{
			{
				ID:       11,
				Category: "Remote Work & BYOD",
				Question: "When working from home, which of the following is most important for security?",
				Options: []string{
					"Having a comfortable chair",
					"Using a secure Wi-Fi network with a strong password",
					"Taking breaks every hour",
					"Having a large monitor",
				},
				CorrectAnswer: "Using a secure Wi-Fi network with a strong password",
			},
		},
	},
	{
		ID:   "backup_recovery_awareness",
		Name: "Backup & Recovery Awareness",
		Questions: []model.Question{
			{
				ID:       12,
				Category: "Backup & Recovery Awareness",
				Question: "What is the primary reason for regularly backing up company data?",
				Options: []string{
					"To free up space on your computer",
					"To ensure data can be recovered in case of loss or corruption",
					"To comply with email retention policies",
					"To make files easier to search",
				},
				CorrectAnswer: "To ensure data can be recovered in case of loss or corruption",
			},
		},
	},
}

// Default возвращает копию базового каталога
func Default() []model.Quiz {
	out := make([]model.Quiz, len(defaultQuizzes))
	for i, q := range defaultQuizzes {
		out[i] = q.Clone()
	}
	return out
}
