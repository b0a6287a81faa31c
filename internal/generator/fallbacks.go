// internal/generator/fallbacks.go
package generator

import "agri-intelligence/internal/models"

// fallbackResponses are pre-written expert consultations served when the
// model is unreachable. Categories without one get the general farming text.
var fallbackResponses = map[models.Category]string{
	models.CategoryFertilizerOptimization: `Namaste! For optimal fertilizer management:

**Soil Testing First**: Always conduct soil testing to determine NPK status before fertilizer application.

**NPK Recommendations** (General guidelines):
- Wheat: 120kg N + 60kg P₂O₅ + 40kg K₂O per hectare
- Rice: 120kg N + 60kg P₂O₅ + 40kg K₂O per hectare
- Cotton: 120kg N + 60kg P₂O₅ + 60kg K₂O per hectare

**Application Strategy**:
- Apply full P & K + 1/3 N as basal dose
- Remaining N in 2-3 split applications
- Use organic matter (FYM/compost) @ 5-10 tonnes/hectare

**Cost Optimization**:
- Buy fertilizers during off-season for better rates
- Consider DAP + Urea combination for NPK supply
- Use soil test-based fertilizer recommendations for precise application

For specific recommendations, consult your nearest Krishi Vigyan Kendra with your soil test report.`,

	models.CategoryWeatherImpact: `Namaste! Weather-based farming guidance:

**Current Weather Monitoring**:
- Check daily weather forecasts for farming decisions
- Use IMD weather advisories for agricultural planning
- Monitor temperature, rainfall, and humidity trends

**Weather-Smart Practices**:
- **Heavy Rain**: Ensure proper field drainage, delay fertilizer application
- **Dry Spell**: Plan irrigation, use mulching to conserve moisture
- **High Temperature**: Schedule irrigation early morning/evening, provide shade for sensitive crops
- **High Humidity**: Monitor for fungal diseases, ensure good air circulation

**Seasonal Planning**:
- Plan sowing based on monsoon onset predictions
- Adjust crop varieties based on expected rainfall patterns
- Maintain weather-resilient seed varieties in stock

**Risk Management**:
- Crop insurance enrollment before season starts
- Emergency contact numbers for weather alerts
- Backup irrigation arrangements for dry periods

Stay connected with local weather updates and agricultural meteorology services.`,

	models.CategoryCropSelection: `Namaste! For optimal crop selection:

**Key Selection Criteria**:
1. **Soil Type**: Match crop requirements with your soil characteristics
2. **Climate**: Choose varieties suited to your agro-climatic zone
3. **Water Availability**: Select crops matching your irrigation capacity
4. **Market Demand**: Research local market prices and demand trends

**High-Yielding Varieties** (Popular recommendations):
- **Wheat**: HD-2967, DBW-88, HD-3086
- **Rice**: Swarna, IR-64, Pusa Basmati-1
- **Cotton**: Bt cotton varieties approved for your state
- **Maize**: Pioneer, Syngenta hybrids

**Diversification Benefits**:
- Include leguminous crops for soil nitrogen enrichment
- Plan crop rotation to break pest-disease cycles
- Consider high-value crops like vegetables/fruits if suitable

**Resource Planning**:
- Calculate input costs vs expected returns
- Ensure availability of quality seeds and inputs
- Plan labor requirements during peak seasons

Consult your local agriculture extension officer for region-specific variety recommendations.`,

	models.CategoryPestDiseaseManagement: `Namaste! For effective pest and disease management:

**Integrated Pest Management (IPM) Approach**:

**Prevention First**:
- Use certified, disease-resistant seeds
- Maintain proper field sanitation
- Follow recommended crop rotation
- Balanced fertilization (avoid excess nitrogen)

**Monitoring & Identification**:
- Regular field scouting (2-3 times per week)
- Learn to identify common pests and diseases
- Use pheromone traps for insect monitoring
- Maintain pest activity records

**Control Strategies**:
1. **Biological Control**: Encourage natural predators, use bio-pesticides
2. **Cultural Control**: Timely sowing, proper spacing, weed management
3. **Chemical Control**: Use only when economic threshold is reached

**Safe Pesticide Use**:
- Read labels carefully and follow instructions
- Use recommended doses and timing
- Wear protective equipment during application
- Maintain pre-harvest intervals

**Emergency Action**: If severe infestation occurs, immediately consult your nearest agricultural extension officer or call the farmer helpline for expert guidance.

Remember: Prevention is always better and cheaper than cure!`,

	models.CategoryYieldPrediction: `Namaste! For maximizing crop yield:

**Yield Enhancement Strategies**:

**Seed & Variety Management**:
- Use certified seeds of high-yielding varieties
- Ensure proper seed treatment before sowing
- Maintain optimal plant population per hectare
- Choose varieties suited to your local conditions

**Nutrition Management**:
- Conduct soil testing for balanced fertilization
- Apply organic matter regularly (5-10 tonnes FYM/hectare)
- Follow recommended NPK application schedules
- Address micronutrient deficiencies (Zinc, Iron, Boron)

**Water Management**:
- Ensure timely irrigation at critical growth stages
- Use efficient irrigation methods (drip/sprinkler)
- Maintain proper drainage during heavy rains
- Monitor soil moisture levels

**Crop Management**:
- Timely field operations (sowing, weeding, harvesting)
- Proper plant protection measures
- Regular field monitoring and problem identification
- Use of growth promoters where beneficial

**Expected Yields** (with good management):
- Wheat: 40-50 quintals/hectare
- Rice: 50-60 quintals/hectare
- Cotton: 15-20 quintals/hectare

Focus on these fundamentals for consistent high yields!`,

	models.CategoryMarketPriceForecasting: `Namaste! For better market decisions:

**Market Intelligence Strategies**:

**Price Monitoring**:
- Check daily mandi prices through eNAM portal
- Follow commodity price trends for your crops
- Monitor prices in nearby mandis for best rates
- Track seasonal price patterns for your crops

**Marketing Strategies**:
- **Timing**: Avoid harvesting rush, wait for price recovery
- **Storage**: Invest in proper storage to wait for better prices
- **Grading**: Clean and grade your produce for premium prices
- **Direct Marketing**: Explore Farmer Producer Organizations (FPOs)

**Government Support**:
- Know Minimum Support Prices (MSP) for your crops
- Register with nearby procurement centers
- Understand government procurement procedures
- Consider Price Deficiency Payment Schemes where available

**Value Addition**:
- Explore primary processing opportunities
- Connect with food processing units
- Consider direct consumer marketing
- Join farmer collectives for better bargaining power

**Planning Advice**:
- Diversify crops to spread market risks
- Plan production based on demand forecasts
- Maintain market contacts and relationships

Use government agriculture marketing apps and stay connected with local market committees for real-time information.`,

	models.CategoryGeneralFarming: `Namaste! Here's comprehensive farming guidance:

**Fundamental Best Practices**:

**Soil Health Management**:
- Regular soil testing (every 2-3 years)
- Organic matter addition (FYM, compost, green manure)
- Balanced fertilization based on soil test results
- Crop rotation to maintain soil fertility

**Water Conservation**:
- Adopt efficient irrigation methods
- Rainwater harvesting where possible
- Mulching to reduce water evaporation
- Proper drainage systems for excess water

**Integrated Farming**:
- Combine crops with dairy/poultry for additional income
- Kitchen gardening for family nutrition
- Vermicomposting for organic fertilizer production
- Agroforestry for long-term sustainability

**Technology Adoption**:
- Use weather-based agro-advisories
- Adopt precision farming tools gradually
- Connect with agricultural apps and portals
- Regular training and skill upgradation

**Financial Planning**:
- Crop insurance enrollment
- Maintain farming records and accounts
- Explore government schemes and subsidies
- Plan for emergency funds

**Continuous Learning**:
- Connect with Krishi Vigyan Kendras
- Join farmer groups and cooperatives
- Attend agricultural training programs
- Share experiences with fellow farmers

Remember: Successful farming combines traditional wisdom with modern science!`,
}

// FallbackResponse returns the canned expert response for the category.
func FallbackResponse(category models.Category) string {
	if response, ok := fallbackResponses[category]; ok {
		return response
	}
	return fallbackResponses[models.CategoryGeneralFarming]
}
