package medical

import "github.com/zhouzirui/medchat/internal/model/chat"

// Document is one entry of the medical knowledge base.
type Document struct {
	ID       chat.ID  `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Source converts the document into the citation sent to clients.
func (d Document) Source() chat.Source {
	return chat.Source{ID: d.ID, Title: d.Title}
}

// Seed provides a small built-in dataset used when no dataset file is found.
func Seed() []Document {
	return []Document{
		{
			ID:       "common-cold",
			Title:    "Common Cold",
			Content:  "The common cold is a viral infection of the nose and throat. Symptoms include runny nose, sore throat, cough, congestion and mild fatigue. Treatment focuses on rest, fluids and over-the-counter remedies. Seek care if fever exceeds 39C or symptoms last longer than ten days.",
			Keywords: []string{"cold", "runny nose", "sore throat", "cough", "congestion", "sneezing"},
		},
		{
			ID:       "influenza",
			Title:    "Influenza (Flu)",
			Content:  "Influenza is a contagious respiratory illness caused by influenza viruses. Symptoms include fever, chills, muscle aches, cough, headache and fatigue. Annual vaccination is the best prevention. Antiviral medication may help when started early. Seek emergency care for difficulty breathing or chest pain.",
			Keywords: []string{"flu", "influenza", "fever", "chills", "body aches", "muscle aches"},
		},
		{
			ID:       "migraine",
			Title:    "Migraine",
			Content:  "Migraine is a neurological condition causing intense, throbbing headaches, often on one side of the head, with nausea and sensitivity to light and sound. Triggers include stress, lack of sleep and certain foods. Pain relievers such as ibuprofen can help; preventive medication is available for frequent attacks.",
			Keywords: []string{"migraine", "headache", "head pain", "aura", "light sensitivity"},
		},
		{
			ID:       "hypertension",
			Title:    "Hypertension (High Blood Pressure)",
			Content:  "Hypertension is persistently elevated blood pressure, usually without symptoms. It raises the risk of heart disease and stroke. Management includes reducing salt, regular exercise, limiting alcohol and prescribed medication. Regular blood pressure checks are recommended for adults.",
			Keywords: []string{"hypertension", "high blood pressure", "blood pressure", "bp"},
		},
		{
			ID:       "type-2-diabetes",
			Title:    "Type 2 Diabetes",
			Content:  "Type 2 diabetes is a chronic condition affecting how the body processes blood sugar. Symptoms include increased thirst, frequent urination, fatigue and blurred vision. Management involves diet, physical activity, glucose monitoring and medication such as metformin.",
			Keywords: []string{"diabetes", "blood sugar", "glucose", "insulin", "thirst", "urination"},
		},
		{
			ID:       "asthma",
			Title:    "Asthma",
			Content:  "Asthma is a chronic condition in which the airways narrow and swell, causing wheezing, shortness of breath, chest tightness and coughing. Inhalers relieve and prevent symptoms. Avoiding triggers such as smoke, allergens and cold air helps control attacks.",
			Keywords: []string{"asthma", "wheezing", "shortness of breath", "inhaler", "breathing"},
		},
	}
}
