package catalog

type indicatorDef struct {
	id             string
	name           string
	symbol         string
	role           string
	longTermChart  string
	shortTermChart string
}

type domainDef struct {
	code        string
	name        string
	description string
	indicators  []indicatorDef
}

// Chart file names are relative to the long-term and short-term dashboard bases.
var definitions = []domainDef{
	{
		code:        DomainMacro,
		name:        "Macro",
		description: "Analyzes macroeconomic indicators including equities, commodities, currencies, and interest rates",
		indicators: []indicatorDef{
			{id: "spx", name: "S&P 500", symbol: "SPX", role: "Equity benchmark", longTermChart: "01_SPX_Secular_Trend.png", shortTermChart: "15_SPX.png"},
			{id: "usd", name: "US Dollar Index", symbol: "USD/DXY", role: "Global financial conditions", longTermChart: "03_US_Dollar_Index.png", shortTermChart: "14_USD.png"},
			{id: "tnx", name: "10-Year Treasury Yields", symbol: "TNX", role: "Risk-free rate", longTermChart: "04_Treasury_10Y_Yields.png", shortTermChart: "19_TNX.png"},
			{id: "copper_gold", name: "Copper/Gold Ratio", symbol: "COPPER:GOLD", role: "Growth proxy", longTermChart: "02_Copper_Gold_Ratio.png", shortTermChart: "16_COPPER_GOLD.png"},
		},
	},
	{
		code:        DomainLeadership,
		name:        "Leadership",
		description: "Analyzes market leadership patterns across sectors and styles",
		indicators: []indicatorDef{
			{id: "xly_xlp", name: "Consumer Discretionary vs Staples", symbol: "XLY:XLP", role: "Risk appetite indicator", longTermChart: "08_XLY_XLP_Ratio.png", shortTermChart: "12_XLY_XLP.png"},
			{id: "xlk_xlp", name: "Technology vs Staples", symbol: "XLK:XLP", role: "Growth vs defensive", longTermChart: "11_XLK_XLP_Ratio.png", shortTermChart: "18_XLK_XLP.png"},
			{id: "smh_spy", name: "Semiconductors vs S&P 500", symbol: "SMH:SPY", role: "Tech leadership", longTermChart: "12_SMH_SPY_Ratio.png", shortTermChart: "10_SMH_SPY.png"},
			{id: "iwf_iwd", name: "Growth vs Value", symbol: "IWF:IWD", role: "Style rotation", longTermChart: "09_IWF_IWD_Ratio.png", shortTermChart: "13_IWFIWDV.png"},
		},
	},
	{
		code:        DomainBreadth,
		name:        "Breadth",
		description: "Analyzes market participation and internal strength",
		indicators: []indicatorDef{
			{id: "rsp_spy", name: "Equal Weight vs Market Cap", symbol: "RSP:SPY", role: "Broad participation", longTermChart: "10_RSP_SPY_Ratio.png", shortTermChart: "09_RSP_SPY.png"},
			{id: "spxa50r", name: "S&P 500 % Above 50-day MA", symbol: "SPXA50R", role: "Short-term breadth", longTermChart: "13_SPXA50R.png", shortTermChart: "01_SPXA50R.png"},
			{id: "spxa150r", name: "S&P 500 % Above 150-day MA", symbol: "SPXA150R", role: "Intermediate breadth", longTermChart: "14_SPXA150R.png", shortTermChart: "02_SPXA150R.png"},
			{id: "spxa200r", name: "S&P 500 % Above 200-day MA", symbol: "SPXA200R", role: "Long-term breadth", longTermChart: "15_SPXA200R.png", shortTermChart: "03_SPXA200R.png"},
		},
	},
	{
		code:        DomainLiquidity,
		name:        "Liquidity",
		description: "Analyzes credit conditions and financial market liquidity",
		indicators: []indicatorDef{
			{id: "hyg_ief", name: "High Yield vs Treasury", symbol: "HYG:IEF", role: "Credit risk appetite", longTermChart: "05_HYG_IEF_Ratio.png", shortTermChart: "04_HYG_IEF.png"},
			{id: "jnk_ief", name: "Junk Bond vs Treasury", symbol: "JNK:IEF", role: "High yield credit", longTermChart: "06_JNK_IEF_Ratio.png", shortTermChart: "17_JNK_IEF.png"},
			{id: "lqd_ief", name: "Investment Grade vs Treasury", symbol: "LQD:IEF", role: "Investment grade credit", longTermChart: "07_LQD_IEF_Ratio.png", shortTermChart: "05_LQD_IEF.png"},
		},
	},
	{
		code:        DomainVolatility,
		name:        "Volatility",
		description: "Analyzes market volatility and risk sentiment",
		indicators: []indicatorDef{
			{id: "vix_vxv", name: "VIX Term Structure", symbol: "VIX:VXV", role: "Volatility term structure", longTermChart: "17_VIX_VXV_Ratio.png", shortTermChart: "06_VIX_VXV.png"},
			{id: "vvix", name: "Volatility of VIX", symbol: "VVIX", role: "Volatility of volatility", longTermChart: "18_VVIX.png", shortTermChart: "07_VVIX.png"},
			// VIX only has a short-term chart.
			{id: "vix", name: "VIX (Volatility Index)", symbol: "VIX", role: "Market fear gauge", shortTermChart: "08_VIX.png"},
		},
	},
	{
		code:        DomainSentiment,
		name:        "Sentiment",
		description: "Analyzes market sentiment and positioning",
		indicators: []indicatorDef{
			{id: "cpce", name: "Put/Call Ratio", symbol: "CPCE", role: "Options sentiment", longTermChart: "16_CPCE_Put_Call.png", shortTermChart: "11_CPCE.png"},
		},
	},
}
