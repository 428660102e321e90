package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
)

func renderStatus(w io.Writer, st *dto.InvoiceStatusResponse) error {
	_, err := fmt.Fprintf(w, "Staging ID: %d\nFlag:       %s (%s)\nError:      %s\n",
		st.StagingID, st.ProcessFlag, st.Status, dash(st.ErrorMessage))
	return err
}

func renderSearch(w io.Writer, inv *dto.InvoiceSearchResponse) error {
	fmt.Fprintf(w, "Invoice:    %s (staging_id %d)\n", inv.InvoiceNum, inv.StagingID)
	fmt.Fprintf(w, "Org:        %d\n", inv.OrgID)
	fmt.Fprintf(w, "Batch:      %s\n", optInt(inv.BatchID))
	fmt.Fprintf(w, "Date:       %s\n", inv.InvoiceDate)
	fmt.Fprintf(w, "Type:       %s\n", inv.InvoiceType)
	fmt.Fprintf(w, "Amount:     %s %s\n", inv.InvoiceAmount.StringFixed(2), inv.CurrencyCode)
	fmt.Fprintf(w, "Vendor:     %s / %s\n", inv.VendorNum, inv.VendorSiteCode)
	fmt.Fprintf(w, "Status:     %s (%s)\n", inv.ProcessFlag, inv.ProcessStatus)
	fmt.Fprintf(w, "Error:      %s\n", optString(inv.ErrorMessage))
	fmt.Fprintln(w)

	if len(inv.Lines) == 0 {
		_, err := fmt.Fprintln(w, "Lines: (none)")
		return err
	}
	fmt.Fprintf(w, "Lines (%d):\n", len(inv.Lines))
	fmt.Fprintf(w, "  %-4s%-15s%12s  %-5s%s\n", "#", "TYPE", "AMOUNT", "FLAG", "DESCRIPTION")
	for _, l := range inv.Lines {
		if _, err := fmt.Fprintf(w, "  %-4d%-15s%12s  %-5s%s\n",
			l.LineNumber, l.LineType, l.Amount.StringFixed(2), l.ProcessFlag, optString(l.Description)); err != nil {
			return err
		}
	}
	return nil
}

func renderProcess(w io.Writer, res *dto.ProcessResponse) error {
	_, err := fmt.Fprintf(w, "Result:      %s\nReturn code: %s\nRequest ID:  %s\nMessage:     %s\n",
		res.Status, res.ReturnCode, optInt(res.RequestID), res.Message)
	return err
}

func renderCancel(w io.Writer, res *dto.CancelResponse) error {
	_, err := fmt.Fprintf(w, "%s (staging_id %d)\n", res.Message, res.StagingID)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func optString(s *string) string {
	if s == nil {
		return "-"
	}
	return dash(*s)
}

func optInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}
