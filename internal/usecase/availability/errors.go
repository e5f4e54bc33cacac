package availability

import "github.com/BruksfildServices01/barberia-api/internal/httperr"

func errBranchUnconfigured(id uint) error {
	return httperr.Unconfiguredf("branch_schedule_missing",
		"No hay horarios configurados para la sucursal %d. Configure horarios usando POST /admin/sucursales/%d/horarios", id, id)
}

func errBarberUnconfigured(id uint) error {
	return httperr.Unconfiguredf("barber_schedule_missing",
		"No hay horarios configurados para el barbero %d. Configure horarios usando POST /admin/barberos/%d/horarios", id, id)
}

func errNoWindow(from, to string) error {
	return httperr.Unconfiguredf("no_window_in_range",
		"No se encontraron horarios disponibles entre %s y %s. Verifique que los horarios de la sucursal y del barbero se intersecten para los días solicitados", from, to)
}

func errInvertedRange() error {
	return httperr.InvalidArgumentf("invalid_range", "La fecha de inicio debe ser anterior a la fecha de fin")
}

func errNoBarbers(branchID uint) error {
	return httperr.NotFoundf("no_active_barbers", "No hay barberos activos en la sucursal %d", branchID)
}
