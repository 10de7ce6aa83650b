package payslip

import (
	paysliperrors "go-ems/internal/payslip/errors"

	"github.com/shopspring/decimal"
)

// Komponen gaji dihitung dari persentase tetap atas gaji bulanan.
var (
	basicPayRate = decimal.NewFromFloat(0.60)
	hraRate      = decimal.NewFromFloat(0.30)
	pfRate       = decimal.NewFromFloat(0.12)
	esiRate      = decimal.NewFromFloat(0.0075)

	medicalAllowance   = decimal.NewFromInt(2000)
	transportAllowance = decimal.NewFromInt(3000)

	// ESI hanya dipotong jika gross masih di bawah threshold ini.
	esiGrossThreshold = decimal.NewFromInt(25000)

	monthsPerYear = decimal.NewFromInt(12)
)

// taxBracket is one slab of the progressive annual tax table. A nil UpTo
// marks the open-ended top slab.
type taxBracket struct {
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

func limit(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// annualTaxBrackets is ordered from the lowest slab up. Each slab is filled
// before the remainder spills into the next one.
var annualTaxBrackets = []taxBracket{
	{UpTo: limit(250_000), Rate: decimal.Zero},
	{UpTo: limit(500_000), Rate: decimal.NewFromFloat(0.05)},
	{UpTo: limit(1_000_000), Rate: decimal.NewFromFloat(0.20)},
	{UpTo: nil, Rate: decimal.NewFromFloat(0.30)},
}

// Breakdown is the full earnings/deductions split for one monthly salary.
// All amounts are rounded to 2 decimal places.
type Breakdown struct {
	BasicPay           decimal.Decimal
	HRA                decimal.Decimal
	MedicalAllowance   decimal.Decimal
	TransportAllowance decimal.Decimal
	OtherAllowances    decimal.Decimal
	GrossSalary        decimal.Decimal

	PF              decimal.Decimal
	ESI             decimal.Decimal
	TaxDeductions   decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal

	NetSalary decimal.Decimal
}

// CalculateBreakdown derives the payslip breakdown from a positive monthly
// base salary. Pure function: no state is read or written, so a failure
// never corrupts anything and retrying is pointless.
//
// Rounding happens at every intermediate step, not only at the end, so the
// printed components always add up exactly.
func CalculateBreakdown(monthlySalary decimal.Decimal) (Breakdown, error) {
	if !monthlySalary.IsPositive() {
		return Breakdown{}, paysliperrors.ErrNonPositiveSalary
	}

	b := Breakdown{
		MedicalAllowance:   medicalAllowance.Round(2),
		TransportAllowance: transportAllowance.Round(2),
		OtherAllowances:    decimal.Zero.Round(2),
		OtherDeductions:    decimal.Zero.Round(2),
	}

	b.BasicPay = monthlySalary.Mul(basicPayRate).Round(2)
	b.HRA = b.BasicPay.Mul(hraRate).Round(2)

	b.GrossSalary = b.BasicPay.
		Add(b.HRA).
		Add(b.MedicalAllowance).
		Add(b.TransportAllowance).
		Add(b.OtherAllowances).
		Round(2)

	b.PF = b.BasicPay.Mul(pfRate).Round(2)

	if b.GrossSalary.LessThanOrEqual(esiGrossThreshold) {
		b.ESI = b.GrossSalary.Mul(esiRate).Round(2)
	} else {
		b.ESI = decimal.Zero.Round(2)
	}

	annualSalary := monthlySalary.Mul(monthsPerYear)
	b.TaxDeductions = annualTax(annualSalary).Div(monthsPerYear).Round(2)

	b.TotalDeductions = b.PF.
		Add(b.ESI).
		Add(b.TaxDeductions).
		Add(b.OtherDeductions).
		Round(2)

	b.NetSalary = b.GrossSalary.Sub(b.TotalDeductions).Round(2)

	return b, nil
}

// annualTax walks the bracket table, taxing each filled slab at its marginal
// rate before moving the remainder up to the next one.
func annualTax(annualSalary decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero

	for _, bracket := range annualTaxBrackets {
		if annualSalary.LessThanOrEqual(lower) {
			break
		}

		slabTop := annualSalary
		if bracket.UpTo != nil && bracket.UpTo.LessThan(annualSalary) {
			slabTop = *bracket.UpTo
		}

		taxable := slabTop.Sub(lower)
		tax = tax.Add(taxable.Mul(bracket.Rate))

		if bracket.UpTo == nil {
			break
		}
		lower = *bracket.UpTo
	}

	return tax.Round(2)
}
