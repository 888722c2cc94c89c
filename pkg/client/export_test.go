package client

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var exportItems = []Agremiado{
	{
		Cop: "0015", Nombres: "MARÍA", Apellidos: "QUISPE, HUAMÁN", Colegio: "I_LIMA",
		Estado: "ACTIVO", Habilitado: "ACTIVO",
		FechaRegistro: time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC),
	},
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "agremiados_2024-03-09.csv", ExportFilename(now, "csv"))
	assert.Equal(t, "agremiados_2024-03-09.xlsx", ExportFilename(now, "xlsx"))
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, exportItems))

	want := "COP,NOMBRES,APELLIDOS,COLEGIO_REGIONAL,ESTADO,HABILITADO,FECHA_REGISTRO\n" +
		"0015,MARÍA,\"QUISPE, HUAMÁN\",I_LIMA,ACTIVO,ACTIVO,01/03/2024 10:30\n"
	assert.Equal(t, want, buf.String())
}

func TestExport_EmptyIsErrNoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, ExportCSV(&buf, nil), ErrNoData)
	assert.ErrorIs(t, ExportXLSX(&buf, []Agremiado{}), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestExportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, exportItems))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ExportColumns, rows[0])
	assert.Equal(t, []string{"0015", "MARÍA", "QUISPE, HUAMÁN", "I_LIMA", "ACTIVO", "ACTIVO", "01/03/2024 10:30"}, rows[1])
	assert.Equal(t, []string{exportSheet}, f.GetSheetList())
}
