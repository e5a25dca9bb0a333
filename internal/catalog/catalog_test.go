package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_IndicatorCounts(t *testing.T) {
	c := Default()

	tests := []struct {
		code  string
		count int
	}{
		{code: DomainMacro, count: 4},
		{code: DomainLeadership, count: 4},
		{code: DomainBreadth, count: 4},
		{code: DomainLiquidity, count: 3},
		{code: DomainVolatility, count: 3},
		{code: DomainSentiment, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			d, ok := c.Get(tt.code)
			require.True(t, ok)
			assert.Len(t, d.Indicators, tt.count)
			for _, ind := range d.Indicators {
				assert.NotEmpty(t, ind.ShortTermChartURL, "indicator %s must have a short-term chart", ind.ID)
			}
		})
	}

	assert.Equal(t, 19, c.TotalIndicatorCount())
	assert.Len(t, c.Indicators(), 19)
}

func TestCatalog_AllFollowsBatchOrder(t *testing.T) {
	all := Default().All()
	require.Len(t, all, len(Codes))
	for i, d := range all {
		assert.Equal(t, Codes[i], d.Code)
	}
}

func TestCatalog_GetIsCaseInsensitive(t *testing.T) {
	c := Default()

	d, ok := c.Get("MACRO")
	require.True(t, ok)
	assert.Equal(t, "Macro", d.Name)

	_, ok = c.Get("momentum")
	assert.False(t, ok)
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("sentiment"))
	assert.False(t, IsValidCode("SENTIMENT"))
	assert.False(t, IsValidCode(""))
}

func TestDomain_ChartURLs(t *testing.T) {
	c := Default()

	vol, ok := c.Get(DomainVolatility)
	require.True(t, ok)
	assert.Equal(t, []string{
		DefaultLongTermBaseURL + "/17_VIX_VXV_Ratio.png",
		DefaultShortTermBaseURL + "/06_VIX_VXV.png",
		DefaultLongTermBaseURL + "/18_VVIX.png",
		DefaultShortTermBaseURL + "/07_VVIX.png",
		DefaultShortTermBaseURL + "/08_VIX.png",
	}, vol.ChartURLs())

	vix, ok := c.Indicator(DomainVolatility, "vix")
	require.True(t, ok)
	assert.False(t, vix.HasLongTermChart())
}

func TestNew_CustomBaseURLs(t *testing.T) {
	c := New("http://lt.local/charts/", "http://st.local/charts")

	spx, ok := c.Indicator(DomainMacro, "spx")
	require.True(t, ok)
	assert.Equal(t, "http://lt.local/charts/01_SPX_Secular_Trend.png", spx.LongTermChartURL)
	assert.Equal(t, "http://st.local/charts/15_SPX.png", spx.ShortTermChartURL)
}

func TestCatalog_Stats(t *testing.T) {
	stats := Default().Stats()
	assert.Equal(t, 6, stats.TotalDomains)
	assert.Equal(t, 19, stats.TotalIndicators)
	require.Len(t, stats.IndicatorsByDomain, 6)
	assert.Equal(t, DomainStat{Domain: "Sentiment", Code: DomainSentiment, Count: 1}, stats.IndicatorsByDomain[5])
}
