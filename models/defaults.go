package models

func DefaultAppConfig() AppConfig {
	return AppConfig{
		InstitutionName:   "Governo do Estado do Tocantins",
		DepartmentName:    "Secretaria da Fazenda",
		SubDepartmentName: "Superintendência de Tecnologia e Inovação Fazendária",
		Deadlines: Deadlines{
			ShowBanner: false,
		},
	}
}

func DefaultSectors() []SectorConfig {
	return []SectorConfig{
		{
			ID:             "STIF",
			Name:           "Superintendência de Tecnologia e Inovação Fazendária",
			ShortName:      "GAB/STIF",
			Color:          "bg-blue-900",
			SubDepartments: []string{"Gabinete"},
		},
		{
			ID:             "DGGT",
			Name:           "Diretoria Geral de Gestão Tecnológica",
			ShortName:      "DGGT",
			Color:          "bg-blue-700",
			SubDepartments: []string{"Gerência de Segurança Digital", "Gerência de Suporte e Operações"},
		},
		{
			ID:             "DISCO",
			Name:           "Diretoria de Sistemas Corporativos",
			ShortName:      "DISCO",
			Color:          "bg-blue-600",
			SubDepartments: []string{"Gerência de Sistemas Tributários", "Gerência de Sistemas Financeiros", "Gerência de Testes e Homologação"},
		},
		{
			ID:             "DINFRA",
			Name:           "Diretoria de Infraestrutura",
			ShortName:      "DINFRA",
			Color:          "bg-blue-600",
			SubDepartments: []string{"Gerência de Banco de Dados", "Gerência de Redes e Comunicação", "Gerência de Servidores e Data Center"},
		},
		{
			ID:             "DINOV",
			Name:           "Diretoria de Inovação",
			ShortName:      "DINOV",
			Color:          "bg-yellow-600",
			SubDepartments: []string{"Assessoria de Integração e Pesquisa"},
		},
	}
}

func DefaultStrategicActions() []StrategicAction {
	return []StrategicAction{
		{
			ID:          "1",
			Title:       "Modernizar os sistemas e automações (WS)",
			Description: "Implementar um plano de ação para convergir as plataformas atuais para a plataforma adotada.",
			StartYear:   2023,
			EndYear:     2025,
			Responsible: "SID/STIF",
		},
		{
			ID:          "2",
			Title:       "Aquisição de Parque Tecnológico",
			Description: "Reformulação de processos, recursos humanos, infraestrutura e serviços de TIC.",
			StartYear:   2023,
			EndYear:     2025,
			Responsible: "SID/STIF",
		},
		{
			ID:          "3",
			Title:       "Elaborar e implementar um plano de sustentabilidade de TIC da SEFAZ",
			Description: "Assegurar a operação ininterrupta dos sistemas com alta disponibilidade, ampliando os serviços à população.",
			StartYear:   2023,
			EndYear:     2025,
			Responsible: "SID/STIF",
		},
		{
			ID:          "4",
			Title:       "Definir padrões e normatização dos sistemas de informações",
			Description: "Implementar padrões e normativos com base nos diagnósticos.",
			StartYear:   2023,
			EndYear:     2025,
			Responsible: "SID/STIF",
		},
		{
			ID:          "5",
			Title:       "Elaborar e implementar o plano diretor da TI da SEFAZ",
			Description: "Implementar um plano de ações voltadas para as áreas de pessoal, infraestrutura, processos, normas e gestão de recursos na TIC.",
			StartYear:   2023,
			EndYear:     2025,
			Responsible: "SID/STIF",
		},
		{
			ID:          "6",
			Title:       "Melhoria dos redesenhos e automatização os processos da SEFAZ",
			Description: "Atualizar e melhorar o redesenho de processos existentes e automatizando para homologação e produção.",
			StartYear:   2023,
			EndYear:     2025,
			Responsible: "SID/STIF",
		},
	}
}
