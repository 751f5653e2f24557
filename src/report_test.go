package rf103

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterCarrierLine(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, 300, false)
	require.NoError(t, err)

	p.Print(Report{Carrier: true})
	assert.Equal(t, "### CARRIER\n", buf.String())
}

func TestPrinterNocarrierLinePerfectRate(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, 300, false)
	require.NoError(t, err)

	p.Print(Report{NData: 6, Confidence: 2.5, Throughput: 300})
	assert.Contains(t, buf.String(), "### NOCARRIER ndata=6 confidence=2.500 throughput=300.0")
	assert.Contains(t, buf.String(), "(rate perfect)")
}

func TestPrinterNocarrierLineSlow(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, 300, false)
	require.NoError(t, err)

	p.Print(Report{NData: 6, Confidence: 2.5, Throughput: 270})
	assert.Contains(t, buf.String(), "slow")
}

func TestPrinterNocarrierLineFast(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, 300, false)
	require.NoError(t, err)

	p.Print(Report{NData: 6, Confidence: 2.5, Throughput: 330})
	assert.Contains(t, buf.String(), "fast")
}

func TestPrinterWithTimestampPrefixesLine(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, 300, true)
	require.NoError(t, err)

	p.Print(Report{Carrier: true})
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2} ### CARRIER`, buf.String())
}

func TestClassifyThroughputBoundary(t *testing.T) {
	assert.Equal(t, "(rate perfect)", classifyThroughput(300, 300))
	assert.Equal(t, "(10.0% fast)", classifyThroughput(330, 300))
	assert.Equal(t, "(10.0% slow)", classifyThroughput(270, 300))
}
