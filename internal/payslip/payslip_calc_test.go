package payslip_test

import (
	"testing"

	"go-ems/internal/payslip"
	paysliperrors "go-ems/internal/payslip/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateBreakdown_WorkedExamples(t *testing.T) {
	t.Run("50000 - above ESI threshold, two tax brackets", func(t *testing.T) {
		b, err := payslip.CalculateBreakdown(money("50000.00"))
		assert.NoError(t, err)

		assert.Equal(t, "30000.00", b.BasicPay.StringFixed(2))
		assert.Equal(t, "9000.00", b.HRA.StringFixed(2))
		assert.Equal(t, "2000.00", b.MedicalAllowance.StringFixed(2))
		assert.Equal(t, "3000.00", b.TransportAllowance.StringFixed(2))
		assert.Equal(t, "0.00", b.OtherAllowances.StringFixed(2))
		assert.Equal(t, "44000.00", b.GrossSalary.StringFixed(2))

		assert.Equal(t, "3600.00", b.PF.StringFixed(2))
		// Gross di atas 25000, ESI tidak dipotong.
		assert.Equal(t, "0.00", b.ESI.StringFixed(2))
		// Annual 600k: 250k exempt, 250k @5% = 12500, 100k @20% = 20000
		// -> 32500/yr -> 2708.33/mo.
		assert.Equal(t, "2708.33", b.TaxDeductions.StringFixed(2))
		assert.Equal(t, "6308.33", b.TotalDeductions.StringFixed(2))
		assert.Equal(t, "37691.67", b.NetSalary.StringFixed(2))
	})

	t.Run("15000 - below ESI threshold, exempt tax slab", func(t *testing.T) {
		b, err := payslip.CalculateBreakdown(money("15000.00"))
		assert.NoError(t, err)

		assert.Equal(t, "9000.00", b.BasicPay.StringFixed(2))
		assert.Equal(t, "2700.00", b.HRA.StringFixed(2))
		assert.Equal(t, "16700.00", b.GrossSalary.StringFixed(2))

		assert.Equal(t, "1080.00", b.PF.StringFixed(2))
		assert.Equal(t, "125.25", b.ESI.StringFixed(2))
		assert.Equal(t, "0.00", b.TaxDeductions.StringFixed(2))
		assert.Equal(t, "1205.25", b.TotalDeductions.StringFixed(2))
		assert.Equal(t, "15494.75", b.NetSalary.StringFixed(2))
	})

	t.Run("100000 - top tax bracket", func(t *testing.T) {
		b, err := payslip.CalculateBreakdown(money("100000.00"))
		assert.NoError(t, err)

		// Annual 1.2M: 12500 + 100000 + 60000 = 172500/yr -> 14375/mo.
		assert.Equal(t, "14375.00", b.TaxDeductions.StringFixed(2))
	})
}

func TestCalculateBreakdown_Additivity(t *testing.T) {
	salaries := []string{"1.00", "123.45", "8000.00", "15000.00", "25641.00", "33333.33", "50000.00", "99999.99", "250000.00"}

	for _, raw := range salaries {
		b, err := payslip.CalculateBreakdown(money(raw))
		assert.NoError(t, err, raw)

		earnings := b.BasicPay.
			Add(b.HRA).
			Add(b.MedicalAllowance).
			Add(b.TransportAllowance).
			Add(b.OtherAllowances)
		assert.True(t, earnings.Equal(b.GrossSalary),
			"salary %s: earnings %s != gross %s", raw, earnings, b.GrossSalary)

		deductions := b.PF.
			Add(b.ESI).
			Add(b.TaxDeductions).
			Add(b.OtherDeductions)
		assert.True(t, deductions.Equal(b.TotalDeductions),
			"salary %s: deductions %s != total %s", raw, deductions, b.TotalDeductions)

		assert.True(t, b.GrossSalary.Sub(b.TotalDeductions).Equal(b.NetSalary),
			"salary %s: gross - deductions != net", raw)
	}
}

func TestCalculateBreakdown_ESIThreshold(t *testing.T) {
	t.Run("gross just below threshold deducts ESI", func(t *testing.T) {
		// 25641 -> gross 24999.98.
		b, err := payslip.CalculateBreakdown(money("25641.00"))
		assert.NoError(t, err)
		assert.Equal(t, "24999.98", b.GrossSalary.StringFixed(2))
		assert.Equal(t, "187.50", b.ESI.StringFixed(2))
	})

	t.Run("gross just above threshold skips ESI", func(t *testing.T) {
		// 25642 -> gross 25000.76.
		b, err := payslip.CalculateBreakdown(money("25642.00"))
		assert.NoError(t, err)
		assert.Equal(t, "25000.76", b.GrossSalary.StringFixed(2))
		assert.True(t, b.ESI.IsZero())
	})

	t.Run("ESI is gross times rate whenever it applies", func(t *testing.T) {
		for _, raw := range []string{"100.00", "5000.00", "15000.00", "20000.00"} {
			b, err := payslip.CalculateBreakdown(money(raw))
			assert.NoError(t, err)
			want := b.GrossSalary.Mul(money("0.0075")).Round(2)
			assert.True(t, b.ESI.Equal(want), "salary %s: esi %s != %s", raw, b.ESI, want)
		}
	})
}

func TestCalculateBreakdown_TaxMonotonicity(t *testing.T) {
	prev := decimal.Zero
	for salary := int64(1000); salary <= 200000; salary += 997 {
		b, err := payslip.CalculateBreakdown(decimal.NewFromInt(salary))
		assert.NoError(t, err)
		assert.True(t, b.TaxDeductions.GreaterThanOrEqual(prev),
			"tax decreased at salary %d: %s < %s", salary, b.TaxDeductions, prev)
		prev = b.TaxDeductions
	}
}

func TestCalculateBreakdown_RejectsNonPositiveSalary(t *testing.T) {
	for _, raw := range []string{"0", "-1", "-50000.00"} {
		_, err := payslip.CalculateBreakdown(money(raw))
		assert.ErrorIs(t, err, paysliperrors.ErrNonPositiveSalary, raw)
	}
}
