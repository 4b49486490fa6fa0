package corpus

// CommonDrugs returns the curated list of drug names matched against content
// text. Names are lowercase; matching is whole-word and case-insensitive.
func CommonDrugs() []string {
	return []string{
		"acetaminophen", "ibuprofen", "amoxicillin", "ceftriaxone", "albuterol",
		"fluticasone", "prednisolone", "prednisone", "methylphenidate", "loratadine",
		"cetirizine", "diphenhydramine", "ondansetron", "azithromycin", "cephalexin",
		"penicillin", "ampicillin", "gentamicin", "vancomycin", "metronidazole",
		"clindamycin", "dexamethasone", "budesonide", "montelukast", "levalbuterol",
		"morphine", "fentanyl", "oxycodone", "hydrocodone", "codeine",
		"meperidine", "tramadol", "midazolam", "lorazepam", "diazepam",
		"phenobarbital", "carbamazepine", "valproic acid", "levetiracetam", "phenytoin",
		"lamotrigine", "topiramate", "gabapentin", "ethosuximide", "clonazepam",
		"insulin", "metformin", "levothyroxine", "hydrocortisone", "fludrocortisone",
		"epinephrine", "norepinephrine", "dopamine", "dobutamine", "milrinone",
		"furosemide", "spironolactone", "hydrochlorothiazide", "enalapril", "captopril",
		"lisinopril", "propranolol", "atenolol", "metoprolol", "carvedilol",
		"digoxin", "adenosine", "amiodarone", "procainamide", "lidocaine",
		"heparin", "enoxaparin", "warfarin", "aspirin", "clopidogrel",
		"ranitidine", "famotidine", "omeprazole", "lansoprazole", "sucralfate",
		"lactulose", "polyethylene glycol", "docusate", "senna", "bisacodyl",
		"metoclopramide", "erythromycin", "domperidone", "nystatin", "fluconazole",
		"acyclovir", "oseltamivir", "ribavirin", "zidovudine", "lamivudine",
		"abacavir", "nevirapine", "efavirenz", "ritonavir", "lopinavir",
		"vitamin a", "vitamin b", "vitamin c", "vitamin d", "vitamin e",
		"vitamin k", "folic acid", "iron", "zinc", "calcium",
		"potassium", "sodium", "magnesium", "phosphorus", "selenium",
	}
}

// CommonConditions returns the curated list of medical condition names
// matched against content text.
func CommonConditions() []string {
	return []string{
		"asthma", "pneumonia", "bronchiolitis", "croup", "otitis media",
		"pharyngitis", "tonsillitis", "sinusitis", "urinary tract infection", "pyelonephritis",
		"gastroenteritis", "appendicitis", "intussusception", "pyloric stenosis", "constipation",
		"eczema", "impetigo", "cellulitis", "scabies", "tinea",
		"meningitis", "encephalitis", "febrile seizure", "epilepsy", "cerebral palsy",
		"attention deficit hyperactivity disorder", "autism spectrum disorder", "depression", "anxiety", "eating disorder",
		"type 1 diabetes", "hypothyroidism", "hyperthyroidism", "adrenal insufficiency", "congenital adrenal hyperplasia",
		"sickle cell disease", "iron deficiency anemia", "hemophilia", "idiopathic thrombocytopenic purpura", "leukemia",
		"lymphoma", "neuroblastoma", "wilms tumor", "osteosarcoma", "rhabdomyosarcoma",
		"congenital heart disease", "ventricular septal defect", "atrial septal defect", "patent ductus arteriosus", "tetralogy of fallot",
		"kawasaki disease", "rheumatic fever", "juvenile idiopathic arthritis", "henoch-schonlein purpura", "systemic lupus erythematosus",
		"nephrotic syndrome", "glomerulonephritis", "hemolytic uremic syndrome", "vesicoureteral reflux", "hydronephrosis",
		"cleft lip", "cleft palate", "hirschsprung disease", "gastroschisis",
		"down syndrome", "turner syndrome", "fragile x syndrome", "prader-willi syndrome", "williams syndrome",
		"cystic fibrosis", "spinal muscular atrophy", "duchenne muscular dystrophy", "phenylketonuria", "galactosemia",
		"rickets", "scurvy", "failure to thrive", "obesity", "malnutrition",
		"neonatal jaundice", "respiratory distress syndrome", "necrotizing enterocolitis", "intraventricular hemorrhage", "retinopathy of prematurity",
	}
}

// conditionChapterMarkers are chapter-title fragments that promote the
// chapter's subject into the condition registry at seed time.
var conditionChapterMarkers = []string{
	"Asthma", "Cystic Fibrosis", "Hypertension", "Heart Failure",
	"Endocarditis", "Dyslipidemia", "Diabetes Mellitus", "Obesity",
	"Cerebral Palsy", "Seizure Disorders", "Headache and Migraine",
	"Juvenile Arthritis", "Systemic Lupus Erythematosus",
}

// ConditionContextTerms is the vocabulary that marks a part as
// condition-focused. A known condition re-encountered under such a part has
// its home section moved there.
var ConditionContextTerms = []string{"Disease", "Disorders", "Clinical", "Pathology"}

// TherapeuticContextTerms is the vocabulary that marks a part as
// drug-focused. Dosage extraction widens its context window under such parts.
var TherapeuticContextTerms = []string{"Therapeutics", "Pharmacology", "Treatment"}
