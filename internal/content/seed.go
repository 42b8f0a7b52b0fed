package content

import "cellquest-service/internal/domain"

// SeedActivities is the built-in biology catalog, used when no database is
// configured and by the migrate command to seed one.
func SeedActivities() map[string]domain.Activity {
	return map[string]domain.Activity{
		"activity1": {
			ID:           "activity1",
			Title:        "Introduction to Cells",
			LessonID:     "lesson1",
			NextLessonID: "lesson2",
			Questions: []domain.Question{
				{ID: "a1q1", Kind: domain.MultipleChoice, Prompt: "What is the basic unit of life?",
					Options: []string{"Atom", "Cell", "Tissue", "Organelle"}, CorrectIndex: 1, Points: 2},
				{ID: "a1q2", Kind: domain.MultipleChoice, Prompt: "Which type of cell does not have a nucleus?",
					Options: []string{"Plant cell", "Animal cell", "Eukaryotic cell", "Prokaryotic cell"}, CorrectIndex: 3, Points: 2},
				{ID: "a1q3", Kind: domain.MultipleChoice, Prompt: "What is the function of the mitochondria?",
					Options: []string{"Store genetic material", "Produce energy", "Digest food", "Make proteins"}, CorrectIndex: 1, Points: 2},
				{ID: "a1q4", Kind: domain.MultipleChoice, Prompt: "Where is DNA found in a eukaryotic cell?",
					Options: []string{"Cytoplasm", "Cell membrane", "Nucleus", "Ribosomes"}, CorrectIndex: 2, Points: 2},
				{ID: "a1q5", Kind: domain.MultipleChoice, Prompt: "Which organelle is responsible for photosynthesis?",
					Options: []string{"Ribosomes", "Mitochondria", "Chloroplast", "Golgi body"}, CorrectIndex: 2, Points: 2},
			},
		},
		"activity3": {
			ID:           "activity3",
			Title:        "Prokaryotic and Eukaryotic Cells",
			LessonID:     "lesson4",
			NextLessonID: "lesson5",
			Questions: []domain.Question{
				{ID: "a3q1", Kind: domain.MultipleChoice, Prompt: "What is the main structural difference between prokaryotic and eukaryotic cells?",
					Options:      []string{"Presence of ribosomes", "Type of DNA", "Presence of a membrane-bound nucleus", "Ability to reproduce"},
					CorrectIndex: 2,
					Explanation:  "Eukaryotic cells have a membrane-bound nucleus, while prokaryotic cells do not."},
				{ID: "a3q2", Kind: domain.MultipleChoice, Prompt: "Which of the following is found in both prokaryotic and eukaryotic cells?",
					Options:      []string{"Nucleus", "Mitochondria", "Ribosomes", "Chloroplasts"},
					CorrectIndex: 2,
					Explanation:  "Ribosomes are essential for protein synthesis and are found in all cells."},
				{ID: "a3q3", Kind: domain.MultipleChoice, Prompt: "Which cell type generally has a single, circular chromosome?",
					Options:      []string{"Plant cell", "Animal cell", "Fungal cell", "Prokaryotic cell"},
					CorrectIndex: 3,
					Explanation:  "Prokaryotic cells typically have a single, circular chromosome located in the nucleoid region."},
				{ID: "a3q4", Kind: domain.MultipleChoice, Prompt: "What structure helps prokaryotic cells attach to surfaces and transfer DNA?",
					Options:      []string{"Flagella", "Pili", "Ribosomes", "Plasmids"},
					CorrectIndex: 1,
					Explanation:  "Pili are used for attachment and the transfer of DNA between prokaryotic cells."},
				{ID: "a3q5", Kind: domain.TrueFalse, Prompt: "Eukaryotic cells can be either unicellular or multicellular.",
					CorrectBool: true,
					Explanation: "Eukaryotic cells can exist as single-celled organisms (e.g., yeast) or as part of multicellular organisms (e.g., animals, plants)."},
				{ID: "a3q6", Kind: domain.TrueFalse, Prompt: "Prokaryotic cells do not have cytoplasm.",
					CorrectBool: false,
					Explanation: "Prokaryotic cells have cytoplasm, which contains the cell's internal components."},
				{ID: "a3q7", Kind: domain.TrueFalse, Prompt: "Flagella in prokaryotes and eukaryotes have the same structure.",
					CorrectBool: false,
					Explanation: "Prokaryotic and eukaryotic flagella differ significantly in structure and mechanism of movement."},
				{ID: "a3q8", Kind: domain.Identification, Prompt: "The region in a prokaryotic cell where DNA is located.",
					CorrectText: "Nucleoid",
					Explanation: "The nucleoid is the irregularly shaped region within a prokaryotic cell where the genetic material is localized."},
				{ID: "a3q9", Kind: domain.Identification, Prompt: "Double-membraned organelle in eukaryotes that produces ATP.",
					CorrectText: "Mitochondria",
					Explanation: "Mitochondria are responsible for generating energy (ATP) through cellular respiration in eukaryotic cells."},
				{ID: "a3q10", Kind: domain.Identification, Prompt: "Small, independently replicating DNA molecules in prokaryotes.",
					CorrectText: "Plasmids",
					Explanation: "Plasmids are small, circular DNA molecules that are separate from the bacterial chromosome and can replicate independently."},
			},
		},
		"activity4": {
			ID:           "activity4",
			Title:        "Types of Cells",
			LessonID:     "lesson5",
			NextLessonID: "lesson6",
			Questions: []domain.Question{
				{ID: "a4q1", Kind: domain.MultipleChoice, Prompt: "What is the main structural difference between prokaryotic and eukaryotic cells?",
					Options:      []string{"Prokaryotes have a cell wall, eukaryotes do not", "Eukaryotes are single-celled only", "Prokaryotes lack a nucleus, while eukaryotes have one", "Eukaryotes do not have ribosomes"},
					CorrectIndex: 2,
					Explanation:  "Prokaryotic cells lack a nucleus, while eukaryotic cells have a true nucleus that contains their genetic material."},
				{ID: "a4q2", Kind: domain.MultipleChoice, Prompt: "Which organelle is responsible for photosynthesis in plant cells?",
					Options:      []string{"Mitochondria", "Chloroplast", "Lysosome", "Golgi apparatus"},
					CorrectIndex: 1,
					Explanation:  "Chloroplasts are the organelles in plant cells that carry out photosynthesis, converting light energy into chemical energy."},
				{ID: "a4q3", Kind: domain.MultipleChoice, Prompt: "What material makes up the cell wall of fungal cells?",
					Options:      []string{"Cellulose", "Starch", "Chitin", "Protein"},
					CorrectIndex: 2,
					Explanation:  "The cell wall of fungal cells is primarily made of chitin, which provides structural support."},
				{ID: "a4q4", Kind: domain.MultipleChoice, Prompt: "Which of the following is not a characteristic of animal cells?",
					Options:      []string{"Lack of a cell wall", "Presence of a true nucleus", "Presence of mitochondria", "Large central vacuole"},
					CorrectIndex: 0,
					Explanation:  "Animal cells lack a cell wall, which is a characteristic feature of plant cells and fungi."},
				{ID: "a4q5", Kind: domain.TrueFalse, Prompt: "Protist cells are always multicellular.",
					CorrectBool: false,
					Explanation: "Many protists are unicellular, such as amoebas and paramecia."},
				{ID: "a4q6", Kind: domain.TrueFalse, Prompt: "Fungal cells contain chloroplasts to carry out photosynthesis.",
					CorrectBool: false,
					Explanation: "Fungal cells do not contain chloroplasts and do not perform photosynthesis; they obtain nutrients through absorption."},
				{ID: "a4q7", Kind: domain.TrueFalse, Prompt: "Both plant and animal cells are eukaryotic.",
					CorrectBool: true,
					Explanation: "Both plant and animal cells are classified as eukaryotic because they have a true nucleus and membrane-bound organelles."},
				{ID: "a4q8", Kind: domain.Identification, Prompt: "Eukaryotic cells with a rigid cell wall made of cellulose and chloroplasts for photosynthesis.",
					CorrectText: "Plant Cell",
					Explanation: "Plant cells have a rigid cell wall made of cellulose and contain chloroplasts for photosynthesis."},
				{ID: "a4q9", Kind: domain.Identification, Prompt: "The simplest type of cell, lacking a true nucleus and membrane-bound organelles.",
					CorrectText: "Prokaryotic Cell",
					Explanation: "Prokaryotic cells are the simplest type of cells, lacking a true nucleus and membrane-bound organelles."},
				{ID: "a4q10", Kind: domain.Identification, Prompt: "A diverse group of eukaryotic organisms that may be autotrophic or heterotrophic and often live in aquatic environments.",
					CorrectText: "Protist Cell",
					Explanation: "Protists are a diverse group of eukaryotic organisms that can be autotrophic (like algae) or heterotrophic (like amoebas) and often inhabit aquatic environments."},
			},
		},
		"activity5": {
			ID:           "activity5",
			Title:        "Specialized Cells",
			LessonID:     "lesson6",
			NextLessonID: "lesson7",
			Questions: []domain.Question{
				{ID: "a5q1", Kind: domain.MultipleChoice, Prompt: "What is the main function of the tail (flagellum) of a sperm cell?",
					Options:      []string{"To produce energy", "To protect the genetic material", "To aid in movement toward the egg", "To divide the cell during reproduction"},
					CorrectIndex: 2,
					Explanation:  "The flagellum of a sperm cell is primarily responsible for movement, enabling it to swim towards the egg for fertilization."},
				{ID: "a5q2", Kind: domain.MultipleChoice, Prompt: "Which modified cell structure is responsible for increasing the surface area for nutrient absorption in the intestines?",
					Options:      []string{"Cilia", "Flagella", "Microvilli", "Dendrites"},
					CorrectIndex: 2,
					Explanation:  "Microvilli are small, finger-like projections on the surface of intestinal cells that significantly increase the surface area available for nutrient absorption."},
				{ID: "a5q3", Kind: domain.MultipleChoice, Prompt: "Which of the following cell types lacks a nucleus to maximize space for hemoglobin?",
					Options:      []string{"Nerve cell", "Red blood cell", "Sperm cell", "Root hair cell"},
					CorrectIndex: 1,
					Explanation:  "Red blood cells lose their nucleus during maturation to create more space for hemoglobin, which carries oxygen."},
				{ID: "a5q4", Kind: domain.MultipleChoice, Prompt: "What is the primary function of cilia in the respiratory tract?",
					Options:      []string{"Absorb oxygen", "Transport nutrients", "Move mucus and trapped particles out", "Generate sound"},
					CorrectIndex: 2,
					Explanation:  "Cilia in the respiratory tract beat in a coordinated manner to move mucus and trapped particles away from the lungs."},
				{ID: "a5q5", Kind: domain.TrueFalse, Prompt: "Root hair cells increase the plant's ability to absorb water and minerals.",
					CorrectBool: true,
					Explanation: "Root hair cells are specialized cells on plant roots that increase the surface area for absorption of water and minerals from the soil."},
				{ID: "a5q6", Kind: domain.TrueFalse, Prompt: "Neurons have microvilli to transmit electrical signals.",
					CorrectBool: false,
					Explanation: "Neurons use specialized structures called axons and dendrites to transmit electrical signals, not microvilli."},
				{ID: "a5q7", Kind: domain.TrueFalse, Prompt: "All cells in the body have the same structure because they perform the same function.",
					CorrectBool: false,
					Explanation: "Cells in the body are highly specialized and have different structures that are suited to their specific functions."},
				{ID: "a5q8", Kind: domain.Identification, Prompt: "Finger-like projections on intestinal cells that help absorb nutrients.",
					CorrectText: "Microvilli",
					Explanation: "Microvilli are finger-like projections on the surface of intestinal cells that increase the surface area for nutrient absorption."},
				{ID: "a5q9", Kind: domain.Identification, Prompt: "Cells with long axons and dendrites that send electrical signals.",
					CorrectText: "Nerve Cells",
					Explanation: "Nerve cells (neurons) are specialized cells that transmit electrical signals throughout the body using long axons and dendrites."},
				{ID: "a5q10", Kind: domain.Identification, Prompt: "Hair-like structures that beat in unison to move substances across cell surfaces.",
					CorrectText: "Cilia",
					Explanation: "Cilia are hair-like structures that beat in a coordinated manner to move substances, such as mucus, across cell surfaces."},
			},
		},
	}
}
