package consult

// Category is the closed set of business categories the classifier can assign.
type Category string

const (
	CategorySaaS                 Category = "saas"
	CategoryEcommerce            Category = "ecommerce"
	CategoryAgency               Category = "agency"
	CategoryMarketplace          Category = "marketplace"
	CategoryProfessionalServices Category = "professional_services"
	CategoryHealthcare           Category = "healthcare"
	CategoryFintech              Category = "fintech"
	CategoryEdtech               Category = "edtech"
	CategoryLogistics            Category = "logistics"
	CategoryHospitality          Category = "hospitality"
	CategoryRetail               Category = "retail"
	CategoryManufacturing        Category = "manufacturing"
	CategoryNonprofit            Category = "nonprofit"
	CategoryMedia                Category = "media"
	CategoryRealEstate           Category = "real_estate"
	CategoryUnknown              Category = "unknown"
)

// Categories lists every category except unknown, in scoring order.
// Iteration order matters for deterministic keyword extraction.
var Categories = []Category{
	CategorySaaS,
	CategoryEcommerce,
	CategoryAgency,
	CategoryMarketplace,
	CategoryProfessionalServices,
	CategoryHealthcare,
	CategoryFintech,
	CategoryEdtech,
	CategoryLogistics,
	CategoryHospitality,
	CategoryRetail,
	CategoryManufacturing,
	CategoryNonprofit,
	CategoryMedia,
	CategoryRealEstate,
}

// CategoryPattern holds the literal signals that pull an utterance toward a
// category. Read-only after PatternTable construction.
type CategoryPattern struct {
	Keywords         []string
	Phrases          []string
	Problems         []string
	StrongIndicators []string
	AlignedModels    []string
}

// PatternTable is the full static signal configuration the classifier scores
// against. Build it once with DefaultPatternTable and share it; nothing
// mutates it after load.
type PatternTable struct {
	Patterns      map[Category]CategoryPattern
	Industries    []industryEntry
	ProblemTags   []problemEntry
	Models        []modelEntry
	Sizes         []sizeEntry
	Subcategories map[Category][]subcategoryEntry
	Questions     map[Category][]string
	GenericQs     []string
	TechKeywords  []string
}

type industryEntry struct {
	Name     string
	Keywords []string
}

type problemEntry struct {
	Tag      string
	Keywords []string
}

type modelEntry struct {
	Name     string
	Keywords []string
}

type sizeEntry struct {
	Name     string
	Keywords []string
}

type subcategoryEntry struct {
	Name     string
	Keywords []string
}

// DefaultPatternTable returns the built-in signal configuration.
func DefaultPatternTable() *PatternTable {
	return &PatternTable{
		Patterns: map[Category]CategoryPattern{
			CategorySaaS: {
				Keywords: []string{"saas", "software", "subscription", "platform", "app", "cloud",
					"users", "mrr", "arr", "churn", "retention", "onboarding"},
				Phrases: []string{"software as a service", "monthly recurring", "user acquisition",
					"customer acquisition cost", "lifetime value"},
				Problems:      []string{"churn", "onboarding", "user retention", "scaling", "pricing"},
				AlignedModels: []string{"subscription", "recurring"},
			},
			CategoryEcommerce: {
				Keywords: []string{"store", "shop", "products", "inventory", "orders", "shipping",
					"cart", "checkout", "payment", "catalog", "sku", "fulfillment",
					"ecommerce", "e-commerce", "selling", "sell", "jewelry", "retail"},
				Phrases: []string{"online store", "e-commerce", "selling online", "drop shipping",
					"product catalog", "inventory management", "e-commerce store"},
				Problems:         []string{"inventory", "shipping", "returns", "cart abandonment", "conversion"},
				StrongIndicators: []string{"store", "shop", "selling", "e-commerce"},
				AlignedModels:    []string{"transactional", "product"},
			},
			CategoryAgency: {
				Keywords: []string{"agency", "clients", "projects", "consulting", "services",
					"deliverables", "retainer", "billable", "scope", "proposal",
					"help", "marketing", "digital"},
				Phrases: []string{"digital agency", "marketing agency", "consulting firm",
					"creative agency", "ai agency", "development agency", "help businesses"},
				Problems:         []string{"project management", "client communication", "billing", "scope creep"},
				StrongIndicators: []string{"help", "businesses", "marketing", "digital"},
				AlignedModels:    []string{"service", "project"},
			},
			CategoryMarketplace: {
				Keywords: []string{"marketplace", "buyers", "sellers", "vendors", "listings",
					"commission", "transactions", "matching", "two-sided"},
				Phrases:       []string{"two-sided marketplace", "buyer and seller", "vendor marketplace"},
				Problems:      []string{"liquidity", "chicken and egg", "trust", "matching", "quality control"},
				AlignedModels: []string{"marketplace", "platform"},
			},
			CategoryProfessionalServices: {
				Keywords: []string{"lawyer", "accountant", "consultant", "advisor", "firm",
					"practice", "clients", "cases", "engagement", "advisory",
					"attorneys", "attorney", "litigation", "legal", "law", "law firm"},
				Phrases:          []string{"law firm", "accounting firm", "consulting practice", "legal practice"},
				Problems:         []string{"client management", "document management", "time tracking", "billing"},
				StrongIndicators: []string{"firm", "attorneys", "lawyer", "law firm"},
				AlignedModels:    []string{"service", "consulting"},
			},
			CategoryHealthcare: {
				Keywords: []string{"patient", "doctor", "medical", "health", "clinic", "hospital",
					"appointment", "prescription", "diagnosis", "treatment", "hipaa",
					"dentist", "dental", "physician", "nurse", "therapy"},
				Phrases: []string{"healthcare provider", "medical practice", "dental practice",
					"patient care", "electronic health records"},
				Problems: []string{"appointment scheduling", "patient records", "billing", "compliance"},
			},
			CategoryFintech: {
				Keywords: []string{"payment", "transaction", "banking", "finance", "money", "wallet",
					"lending", "investment", "trading", "crypto", "compliance", "kyc"},
				Phrases:  []string{"payment processing", "financial services", "digital banking"},
				Problems: []string{"compliance", "fraud", "kyc", "aml", "transaction processing"},
			},
			CategoryEdtech: {
				Keywords: []string{"education", "learning", "course", "student", "teacher",
					"curriculum", "lesson", "quiz", "assignment", "grades"},
				Phrases:  []string{"online education", "learning platform", "course platform"},
				Problems: []string{"student engagement", "course delivery", "assessment", "progress tracking"},
			},
			CategoryLogistics: {
				Keywords: []string{"shipping", "delivery", "logistics", "freight", "warehouse",
					"fleet", "route", "tracking", "dispatch", "carrier"},
				Phrases:  []string{"logistics company", "delivery service", "shipping company"},
				Problems: []string{"route optimization", "tracking", "fleet management", "last mile"},
			},
			CategoryRealEstate: {
				Keywords: []string{"property", "real estate", "listing", "rental", "tenant",
					"landlord", "lease", "apartment", "house", "broker", "agent",
					"properties", "manage", "rent"},
				Phrases:          []string{"property management", "real estate agency", "rental properties", "manage properties"},
				Problems:         []string{"property management", "tenant screening", "maintenance", "listings"},
				StrongIndicators: []string{"properties", "rental", "manage", "property"},
			},
			CategoryHospitality:   {},
			CategoryRetail:        {},
			CategoryManufacturing: {},
			CategoryNonprofit:     {},
			CategoryMedia:         {},
		},
		Industries: []industryEntry{
			{"b2b", []string{"b2b", "business to business", "enterprise", "companies", "organizations"}},
			{"b2c", []string{"b2c", "consumer", "customers", "users", "retail"}},
			{"b2b2c", []string{"b2b2c", "platform", "marketplace", "both businesses and consumers"}},
			{"dental", []string{"dental", "dentist", "orthodontist", "dental practice", "teeth"}},
			{"medical", []string{"medical", "doctor", "physician", "patient", "healthcare"}},
			{"legal", []string{"legal", "law", "lawyer", "attorney", "litigation"}},
			{"construction", []string{"construction", "contractor", "building", "renovation"}},
			{"restaurant", []string{"restaurant", "food", "dining", "menu", "orders"}},
			{"fitness", []string{"gym", "fitness", "workout", "training", "membership"}},
			{"beauty", []string{"salon", "spa", "beauty", "cosmetics", "styling"}},
		},
		ProblemTags: []problemEntry{
			{"manual_operations", []string{"manual", "by hand", "spreadsheet", "repetitive", "time-consuming"}},
			{"scaling_issues", []string{"scaling", "growth", "can't keep up", "overwhelming", "bottleneck"}},
			{"customer_management", []string{"customer", "client", "crm", "contacts", "relationships"}},
			{"financial_management", []string{"invoicing", "billing", "payments", "accounting", "expenses"}},
			{"communication", []string{"communication", "email", "messaging", "collaboration", "coordination"}},
			{"data_management", []string{"data", "analytics", "reporting", "insights", "metrics"}},
			{"automation_needs", []string{"automate", "automation", "ai", "efficiency", "streamline"}},
		},
		Models: []modelEntry{
			{"subscription", []string{"subscription", "recurring", "monthly", "annual", "saas"}},
			{"transactional", []string{"sell", "selling", "sales", "transaction", "purchase"}},
			{"marketplace", []string{"marketplace", "platform", "connect", "buyers and sellers"}},
			{"service", []string{"service", "consulting", "agency", "freelance", "contractor"}},
			{"product", []string{"product", "manufacturing", "produce", "inventory"}},
		},
		Sizes: []sizeEntry{
			{"solo", []string{"solo", "alone", "just me", "one person", "individual"}},
			{"small", []string{"small", "few", "team of", "startup", "<10", "less than 10"}},
			{"medium", []string{"medium", "growing", "10-50", "dozen", "multiple teams"}},
			{"large", []string{"large", "enterprise", "hundreds", "thousands", "global"}},
		},
		Subcategories: map[Category][]subcategoryEntry{
			CategoryAgency: {
				{"ai_automation", []string{"ai", "automation", "artificial intelligence"}},
				{"marketing", []string{"marketing", "advertising", "seo", "ppc"}},
				{"development", []string{"development", "software", "web", "app"}},
				{"design", []string{"design", "creative", "branding", "ui", "ux"}},
				{"consulting", []string{"consulting", "strategy", "advisory"}},
			},
			CategorySaaS: {
				{"crm", []string{"crm", "customer relationship", "sales pipeline"}},
				{"project_management", []string{"project", "task", "management"}},
				{"communication", []string{"chat", "messaging", "communication"}},
				{"analytics", []string{"analytics", "data", "metrics", "insights"}},
				{"automation", []string{"automation", "workflow", "integration"}},
			},
			CategoryHealthcare: {
				{"dental", []string{"dental", "dentist", "orthodontic"}},
				{"medical", []string{"medical", "doctor", "physician", "clinic"}},
				{"mental_health", []string{"therapy", "counseling", "mental health"}},
				{"specialty", []string{"specialist", "surgery", "cardiology", "dermatology"}},
			},
		},
		Questions: map[Category][]string{
			CategoryAgency: {
				"How many clients are you currently managing?",
				"What's your average project timeline from start to finish?",
				"How do you currently track project deliverables and client communications?",
				"What's the most time-consuming part of managing client projects?",
			},
			CategorySaaS: {
				"How many active users do you have on your platform?",
				"What's your current monthly churn rate?",
				"How long does your onboarding process typically take?",
				"What's the biggest bottleneck in your user acquisition funnel?",
			},
			CategoryEcommerce: {
				"How many orders are you processing daily/weekly?",
				"What's your current cart abandonment rate?",
				"How do you manage inventory across different channels?",
				"What percentage of customer service time goes to order status inquiries?",
			},
			CategoryHealthcare: {
				"How many patients/appointments do you handle daily?",
				"What's your current no-show rate for appointments?",
				"How much time does your staff spend on phone calls for scheduling?",
				"Are you dealing with insurance verification manually?",
			},
			CategoryMarketplace: {
				"How many active buyers and sellers do you have?",
				"What's your current take rate or commission structure?",
				"How do you handle trust and safety between parties?",
				"What's your biggest challenge - supply or demand?",
			},
			CategoryProfessionalServices: {
				"How many active clients or cases are you managing?",
				"How do you currently track billable hours?",
				"What's your average collection time for invoices?",
				"How much time goes into creating proposals or reports?",
			},
			CategoryFintech: {
				"What's your daily transaction volume?",
				"How do you currently handle KYC/AML compliance?",
				"What's your fraud rate?",
				"How long does customer onboarding take?",
			},
			CategoryRealEstate: {
				"How many properties are you currently managing?",
				"What's your vacancy rate?",
				"How do you handle maintenance requests?",
				"How much time goes into tenant screening?",
			},
		},
		GenericQs: []string{
			"How many customers/clients do you currently serve?",
			"What manual process takes up most of your team's time?",
			"What's preventing you from scaling faster?",
			"If you could automate one thing tomorrow, what would it be?",
		},
		TechKeywords: []string{
			"excel", "sheets", "slack", "teams", "zoom", "salesforce", "hubspot",
			"quickbooks", "stripe", "shopify", "wordpress", "squarespace", "wix",
			"mailchimp", "sendgrid", "twilio", "aws", "google cloud", "azure",
			"notion", "airtable", "monday", "asana", "jira", "trello",
		},
	}
}
