package permissao

import "gorm.io/gorm"

// Escopos de visibilidade por perfil. Cada função devolve um gorm scope
// composto com os filtros do chamador; os joins usam os nomes de tabela
// para não acoplar este pacote aos pacotes de entidade.

func nenhum(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

func irrestrito(db *gorm.DB) *gorm.DB {
	return db
}

// EscopoClientes limita a listagem de clientes ao alcance do ator.
func EscopoClientes(perfil string, usuarioID uint) func(*gorm.DB) *gorm.DB {
	switch perfil {
	case PerfilGerenteProphy, PerfilComercial:
		return irrestrito
	case PerfilGerenteGeralCliente:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN cliente_responsaveis cr ON cr.cliente_id = clientes.id").
				Where("cr.usuario_id = ? AND clientes.ativo = ?", usuarioID, true)
		}
	case PerfilGerenteUnidade:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN unidades ON unidades.cliente_id = clientes.id").
				Where("unidades.usuario_id = ?", usuarioID).
				Distinct("clientes.*")
		}
	case PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN cliente_responsaveis cr ON cr.cliente_id = clientes.id").
				Where("cr.usuario_id = ?", usuarioID)
		}
	}
	return nenhum
}

// EscopoUnidades limita unidades às alcançáveis pelo ator.
func EscopoUnidades(perfil string, usuarioID uint) func(*gorm.DB) *gorm.DB {
	switch perfil {
	case PerfilGerenteProphy, PerfilComercial:
		return irrestrito
	case PerfilGerenteGeralCliente, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN cliente_responsaveis cr ON cr.cliente_id = unidades.cliente_id").
				Where("cr.usuario_id = ?", usuarioID)
		}
	case PerfilGerenteUnidade:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("unidades.usuario_id = ?", usuarioID)
		}
	}
	return nenhum
}

// EscopoEquipamentos limita equipamentos via a unidade dona.
func EscopoEquipamentos(perfil string, usuarioID uint) func(*gorm.DB) *gorm.DB {
	switch perfil {
	case PerfilGerenteProphy, PerfilComercial:
		return irrestrito
	case PerfilGerenteGeralCliente, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN unidades ON unidades.id = equipamentos.unidade_id").
				Joins("JOIN cliente_responsaveis cr ON cr.cliente_id = unidades.cliente_id").
				Where("cr.usuario_id = ?", usuarioID)
		}
	case PerfilGerenteUnidade:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN unidades ON unidades.id = equipamentos.unidade_id").
				Where("unidades.usuario_id = ?", usuarioID)
		}
	}
	return nenhum
}

// EscopoAgendamentos limita agendamentos via a unidade visitada.
func EscopoAgendamentos(perfil string, usuarioID uint) func(*gorm.DB) *gorm.DB {
	switch perfil {
	case PerfilGerenteProphy, PerfilComercial:
		return irrestrito
	case PerfilGerenteGeralCliente, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN unidades ON unidades.id = agendamentos.unidade_id").
				Joins("JOIN cliente_responsaveis cr ON cr.cliente_id = unidades.cliente_id").
				Where("cr.usuario_id = ?", usuarioID)
		}
	case PerfilGerenteUnidade:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN unidades ON unidades.id = agendamentos.unidade_id").
				Where("unidades.usuario_id = ?", usuarioID)
		}
	}
	return nenhum
}

// EscopoRelatorios limita relatórios pela unidade, direta ou via equipamento.
func EscopoRelatorios(perfil string, usuarioID uint) func(*gorm.DB) *gorm.DB {
	switch perfil {
	case PerfilGerenteProphy, PerfilComercial:
		return irrestrito
	case PerfilGerenteGeralCliente, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("LEFT JOIN equipamentos ON equipamentos.id = relatorios.equipamento_id").
				Joins("JOIN unidades ON unidades.id = relatorios.unidade_id OR unidades.id = equipamentos.unidade_id").
				Joins("JOIN cliente_responsaveis cr ON cr.cliente_id = unidades.cliente_id").
				Where("cr.usuario_id = ?", usuarioID)
		}
	case PerfilGerenteUnidade:
		return func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("LEFT JOIN equipamentos ON equipamentos.id = relatorios.equipamento_id").
				Joins("JOIN unidades ON unidades.id = relatorios.unidade_id OR unidades.id = equipamentos.unidade_id").
				Where("unidades.usuario_id = ?", usuarioID)
		}
	}
	return nenhum
}
