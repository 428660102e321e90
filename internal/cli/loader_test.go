package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHead = "invoice_num,invoice_date,invoice_amount,vendor_num,vendor_site_code,org_id,line_number,line_type,line_amount\n"

func TestParseInvoices_GroupsConsecutiveRows(t *testing.T) {
	in := csvHead +
		"INV-1,2024-03-15,300,V-1,MAIN,204,1,ITEM,200\n" +
		"INV-1,2024-03-15,300,V-1,MAIN,204,2,TAX,100\n" +
		"INV-1,2024-03-15,300,V-1,MAIN,205,1,ITEM,300\n" +
		"INV-2,2024-03-16,10,V-1,MAIN,204,,,\n"

	reqs, err := ParseInvoices(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, reqs, 3, "mismo número en otra org es otra factura")

	assert.Equal(t, int64(204), reqs[0].OrgID)
	require.Len(t, reqs[0].Lines, 2)
	assert.Equal(t, "TAX", reqs[0].Lines[1].LineType)
	assert.Equal(t, "100", reqs[0].Lines[1].Amount.String())

	assert.Equal(t, int64(205), reqs[1].OrgID)
	assert.Len(t, reqs[1].Lines, 1)

	assert.Equal(t, "INV-2", reqs[2].InvoiceNum)
	assert.Empty(t, reqs[2].Lines)
	assert.Nil(t, reqs[2].BatchID)
}

func TestParseInvoices_Errors(t *testing.T) {
	_, err := ParseInvoices(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseInvoices(strings.NewReader(csvHead))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseInvoices(strings.NewReader("invoice_num,org_id\nINV-1,204\n"))
	assert.ErrorContains(t, err, `falta la columna "invoice_date"`)

	_, err = ParseInvoices(strings.NewReader(csvHead +
		"INV-1,2024-03-15,300,V-1,MAIN,204,1,ITEM,200\n" +
		"INV-1,2024-03-15,300,V-1,MAIN,204,2,TAX,cien\n"))
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.Equal(t, "line_amount", rowErr.Column)

	_, err = ParseInvoices(strings.NewReader(csvHead + "INV-1,2024-03-15,300,V-1,MAIN,ORG,,,\n"))
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "org_id", rowErr.Column)
}

func TestDecodeInput(t *testing.T) {
	r, err := decodeInput(strings.NewReader("\ufeffabc"), "utf-8")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out), "se descarta el BOM")

	r, err = decodeInput(strings.NewReader("\x80 100"), "windows-1252")
	require.NoError(t, err)
	out, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "€ 100", string(out))

	_, err = decodeInput(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
